// Package warp binds layered configuration sources onto typed contracts.
//
// A contract is declared once with schema.Define. Bind starts a Builder for
// it; sources are added highest priority first and Build validates all of
// them at once:
//
//	cfg, err := warp.Bind(ServerContract).
//		AddSource(source.Env("APP", nil)).
//		AddSource(source.YAMLFile("config.yaml")).
//		Build()
//	if errs, ok := diagnostic.As(err); ok {
//		fmt.Println("invalid configuration:\n" + errs.Error())
//	}
//
// Invalid data is reported as a *diagnostic.Errors. Any other error is a
// programming error in the contract or the registered deserializers.
package warp
