package catalog

// Default catalog for the Sense security platform. This is the single source
// of truth for permission resources and actions across the admin console;
// update here rather than in individual screens.

var defaultCategories = []Category{
	{Name: "administration", Label: "Administration", Description: "User management, roles, and system configuration"},
	{Name: "business", Label: "Business Management", Description: "Customer data, contracts, and service tiers"},
	{Name: "security", Label: "Security & Access", Description: "API keys and access control"},
	{Name: "infrastructure", Label: "Infrastructure", Description: "Hardware management and device control"},
	{Name: "monitoring", Label: "Monitoring & Events", Description: "Event monitoring, logs, and system diagnostics"},
}

var defaultResources = []Resource{
	{
		Name: "users", Label: "User Management", Category: "administration",
		Description: "Manage system users and accounts",
		Actions: []Action{
			{Name: "read", Label: "View Users", Description: "View user accounts and details"},
			{Name: "create", Label: "Create Users", Description: "Add new user accounts", Risk: RiskMedium},
			{Name: "update", Label: "Update Users", Description: "Modify user account information", Risk: RiskMedium},
			{Name: "delete", Label: "Delete Users", Description: "Remove user accounts", Risk: RiskHigh},
		},
	},
	{
		Name: "roles", Label: "Role Management", Category: "administration",
		Description: "Manage system roles and permissions",
		Actions: []Action{
			{Name: "read", Label: "View Roles", Description: "View roles and their permissions"},
			{Name: "create", Label: "Create Roles", Description: "Create new system roles", Risk: RiskHigh},
			{Name: "update", Label: "Update Roles", Description: "Modify role permissions", Risk: RiskHigh},
			{Name: "delete", Label: "Delete Roles", Description: "Remove system roles", Risk: RiskCritical},
		},
	},
	{
		Name: "customers", Label: "Customer Management", Category: "business",
		Description: "Manage customer information and data",
		Actions: []Action{
			{Name: "read", Label: "View Customers", Description: "View customer information"},
			{Name: "create", Label: "Create Customers", Description: "Add new customers"},
			{Name: "update", Label: "Update Customers", Description: "Modify customer information"},
			{Name: "delete", Label: "Delete Customers", Description: "Remove customer records", Risk: RiskMedium},
		},
	},
	{
		Name: "contracts", Label: "Contract Management", Category: "business",
		Description: "Manage service contracts and agreements",
		Actions: []Action{
			{Name: "read", Label: "View Contracts", Description: "View service contracts"},
			{Name: "create", Label: "Create Contracts", Description: "Create new contracts"},
			{Name: "update", Label: "Update Contracts", Description: "Modify contract terms"},
			{Name: "delete", Label: "Delete Contracts", Description: "Remove contracts", Risk: RiskMedium},
		},
	},
	{
		Name: "service_tiers", Label: "Service Tiers", Category: "business",
		Description: "Manage service tier configurations",
		Actions: []Action{
			{Name: "read", Label: "View Service Tiers", Description: "View service tier configurations"},
			{Name: "create", Label: "Create Service Tiers", Description: "Create new service tiers"},
			{Name: "update", Label: "Update Service Tiers", Description: "Modify service tier settings"},
			{Name: "delete", Label: "Delete Service Tiers", Description: "Remove service tiers", Risk: RiskMedium},
		},
	},
	{
		Name: "api_keys", Label: "API Key Management", Category: "security",
		Description: "Manage API keys and external access",
		Actions: []Action{
			{Name: "read", Label: "View API Keys", Description: "View API key information"},
			{Name: "create", Label: "Create API Keys", Description: "Generate new API keys", Risk: RiskHigh},
			{Name: "update", Label: "Update API Keys", Description: "Modify API key settings", Risk: RiskMedium},
			{Name: "delete", Label: "Delete API Keys", Description: "Revoke API keys", Risk: RiskHigh},
		},
	},
	{
		Name: "controllers", Label: "Controllers", Category: "infrastructure",
		Description: "Manage edge computing controllers",
		Actions: []Action{
			{Name: "read", Label: "View Controllers", Description: "View controller information"},
			{Name: "create", Label: "Create Controllers", Description: "Add new controllers"},
			{Name: "update", Label: "Update Controllers", Description: "Modify controller settings"},
			{Name: "delete", Label: "Delete Controllers", Description: "Remove controllers", Risk: RiskMedium},
		},
	},
	{
		Name: "cameras", Label: "Cameras", Category: "infrastructure",
		Description: "Manage security cameras and video streams",
		Actions: []Action{
			{Name: "read", Label: "View Cameras", Description: "View camera information"},
			{Name: "create", Label: "Create Cameras", Description: "Add new cameras"},
			{Name: "update", Label: "Update Cameras", Description: "Modify camera settings"},
			{Name: "delete", Label: "Delete Cameras", Description: "Remove cameras", Risk: RiskMedium},
		},
	},
	{
		Name: "nvrs", Label: "NVR Management", Category: "infrastructure",
		Description: "Manage Network Video Recorders",
		Actions: []Action{
			{Name: "read", Label: "View NVRs", Description: "View NVR information"},
			{Name: "create", Label: "Create NVRs", Description: "Add new NVRs"},
			{Name: "update", Label: "Update NVRs", Description: "Modify NVR settings"},
			{Name: "delete", Label: "Delete NVRs", Description: "Remove NVRs", Risk: RiskMedium},
		},
	},
	{
		Name: "events", Label: "Security Events", Category: "monitoring",
		Description: "View and manage security events",
		Actions: []Action{
			{Name: "read", Label: "View Events", Description: "View security events"},
			{Name: "create", Label: "Create Events", Description: "Create manual events"},
			{Name: "update", Label: "Update Events", Description: "Modify event details"},
			{Name: "delete", Label: "Delete Events", Description: "Remove events", Risk: RiskMedium},
		},
	},
	{
		Name: "rf_monitoring", Label: "RF Monitoring", Category: "monitoring",
		Description: "Manage RF frequency monitoring and jamming detection",
		Actions: []Action{
			{Name: "read", Label: "View RF Data", Description: "View RF monitoring data"},
			{Name: "create", Label: "Configure RF", Description: "Configure RF monitoring"},
			{Name: "update", Label: "Update RF Settings", Description: "Modify RF monitoring settings"},
			{Name: "delete", Label: "Delete RF Config", Description: "Remove RF configurations"},
		},
	},
	{
		Name: "system_config", Label: "System Configuration", Category: "administration",
		Description: "Manage system-wide settings and configuration",
		Actions: []Action{
			{Name: "read", Label: "View Config", Description: "View system configuration"},
			{Name: "create", Label: "Create Config", Description: "Create configuration entries", Risk: RiskHigh},
			{Name: "update", Label: "Update Config", Description: "Modify system settings", Risk: RiskHigh},
			{Name: "delete", Label: "Delete Config", Description: "Remove configuration entries", Risk: RiskCritical},
		},
	},
	{
		Name: "logs", Label: "System Logs", Category: "monitoring",
		Description: "Access system logs and audit trails",
		Actions: []Action{
			{Name: "read", Label: "View Logs", Description: "Access system and audit logs"},
		},
	},
	{
		Name: "diagnostics", Label: "System Diagnostics", Category: "monitoring",
		Description: "View system diagnostics and health metrics",
		Actions: []Action{
			{Name: "read", Label: "View Diagnostics", Description: "View system health and diagnostics"},
		},
	},
}

// Resources an API key may be scoped to. Purely administrative resources are
// never offered for external credentials.
var defaultAPIKeyResources = []string{
	"customers", "contracts", "service_tiers", "controllers",
	"cameras", "nvrs", "events", "rf_monitoring",
}

var defaultCatalog = mustNew(defaultResources, defaultCategories, defaultAPIKeyResources)

func mustNew(resources []Resource, categories []Category, apiKeyAllowed []string) *Catalog {
	c, err := New(resources, categories, apiKeyAllowed)
	if err != nil {
		panic("catalog: invalid built-in definitions: " + err.Error())
	}
	return c
}

// Default returns the built-in platform catalog.
func Default() *Catalog {
	return defaultCatalog
}
