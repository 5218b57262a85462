package config

var defaults = map[string]any{
	"secret":    "",
	"token_ttl": 60,
	"log_level": "info",

	"listen_addr": ":8080",

	"allowed_networks": "",

	"rbac.policy_file": "./instance/rbac.yaml",
	"rbac.admins":      []string{},

	"alerts.enabled":    false,
	"alerts.recipients": []string{},
	"alerts.host":       "host.docker.internal",
	"alerts.port":       25,
	"alerts.username":   "",
	"alerts.password":   "",
	"alerts.from":       "noreply@example.com",

	"storage.type":        "sqlite",
	"storage.sqlite.path": "./data/storage.db",
}

func Defaults() map[string]any {
	values := make(map[string]any)
	for k, v := range defaults {
		values[k] = v
	}
	return values
}
