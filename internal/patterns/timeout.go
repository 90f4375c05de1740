package patterns

import "time"

// DefaultTimeout bounds a single Paystack request when none is configured
const DefaultTimeout = 10 * time.Second

// GatewayTimeout bounds a UI call to the gateway; it covers one upstream round trip plus overhead
const GatewayTimeout = 15 * time.Second
