package metrics

import "go.opentelemetry.io/otel/attribute"

// Attribute keys shared by every instrument so series join on the same labels.
const (
	AttrMethod   = attribute.Key("method")
	AttrPath     = attribute.Key("path")
	AttrStatus   = attribute.Key("status")
	AttrProvider = attribute.Key("provider")
	AttrTarget   = attribute.Key("target")
	AttrOutcome  = attribute.Key("outcome")
	AttrHook     = attribute.Key("hook")
)
