// Package resource provides handle tables for native transfer resources.
//
// A handle is an opaque integer given out in place of a live host-side value,
// so the value itself never crosses the bridge boundary. The transfer engine
// stores one entry per in-flight transfer and removes it when the transfer
// is destroyed:
//
//	table := resource.NewTable(0)
//	h, err := table.Insert(resource.TypeTransfer, xfer)
//	v, ok := table.Lookup(h, resource.TypeTransfer)
//	table.Remove(h) // calls Drop if the value implements Dropper
//
// Handle 0 is never issued. A table with a limit refuses further inserts with
// ErrExhausted, which is how handle creation failure reaches callers.
// Reap removes everything still live, for owners tearing down shared state.
//
// Observers see every insert and drop:
//
//	table.Subscribe(resource.ObserverFunc(func(e resource.Event) {
//	    log.Printf("handle %d %s", e.Handle, e.Type)
//	}))
package resource
