package instance

import "os"

const defaultID = "local"

// GetID returns the process instance identifier: the platform dyno name, an
// explicit STOREFRONT_INSTANCE_ID, the hostname, or "local".
func GetID() string {
	for _, key := range []string{"DYNO", "STOREFRONT_INSTANCE_ID"} {
		if id := os.Getenv(key); id != "" {
			return id
		}
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return defaultID
}
