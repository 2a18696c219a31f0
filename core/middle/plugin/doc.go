// Package plugin is client plugin interface
//
//	Plugin Context never private, the context is the call internal global shared
//	able usage private type for access self data, plugin example:
//	type xxPlugin struct {}
//
//	-->Request4C(pCtx,...)
//	-->pCtx.SetValue(xxPlugin{},time.Now())
//
//	---->AfterReceive4C(pCtx,...)
//	---->start,_ := pCtx.Value(xxPlugin{}).(time.Time)
package plugin
