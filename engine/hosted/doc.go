// Package hosted is the pure-Go backend: managed classes are
// implemented by host Go functions registered in a process-local
// registry.
//
// # Defining Classes
//
// Classes are built fluently and registered before use:
//
//	counter := hosted.NewClass("demo/Counter").
//	    Constructor("()V", nil).
//	    Method("add", "(I)I", func(c hosted.Call) (jvmruntime.Value, error) {
//	        v, _ := c.Recv.Field("n")
//	        n := v.AsInt() + c.Args[0].AsInt()
//	        c.Recv.SetField("n", jvmruntime.Int(n))
//	        return jvmruntime.Int(n), nil
//	    })
//	if err := eng.Define(counter); err != nil {
//	    log.Fatal(err)
//	}
//
// Implementations raise managed faults by returning a *Thrown:
//
//	return jvmruntime.Void(), hosted.Throw(
//	    "java/lang/IllegalArgumentException", "n must be positive")
//
// # Builtin Classes
//
// A small java/lang set (Object, String, Integer, Boolean, Math,
// System, and the common throwable types) is registered at engine
// creation so descriptors against well-known names resolve without
// host setup. System properties set with -D init options surface
// through java/lang/System.getProperty.
//
// # References
//
// Local references are bound to the attachment that minted them and go
// stale when it detaches; use-after-detach returns a stale_ref error
// rather than undefined behavior. Global references are independent of
// any attachment and are garbage collected with the host, so
// DeleteGlobalRef only preserves the null no-op contract.
package hosted
