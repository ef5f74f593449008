// Package reactive provides the dependency-tracking core of the
// framework.
//
// Dependencies are tracked automatically at runtime: reading a reactive
// field while a Watcher is evaluating subscribes that Watcher to the
// field's Dep, and writing the field notifies every subscriber.
//
// # Core Types
//
// Map and Slice are reactive containers produced by Observe:
//
//	data, _ := Observe(map[string]any{"count": 0, "items": []any{}}, true)
//	m := data.(*Map)
//	m.Get("count")    // read (subscribes the active watcher)
//	m.Set("count", 1) // write (notifies subscribers)
//
// Watcher owns an evaluation function and reacts to notifications either
// lazily, synchronously, or through the scheduler:
//
//	w := NewWatcher(nil, func() any { return m.Get("count") },
//	    func(newVal, oldVal any) { fmt.Println(newVal) },
//	    WatcherOptions{User: true})
//
// Computed is a pull-based cache invalidated by push-based notification:
//
//	double := NewComputed(nil, func() any {
//	    return m.Get("count").(int) * 2
//	})
//	double.Get() // recomputes only when an input changed since last read
//
// # Scheduling
//
// Non-sync watchers enqueue into a process-wide queue deduplicated by
// watcher id. Flush drains the queue in ascending creation-id order, one
// tick boundary per call, so any number of writes between two ticks
// re-runs a watcher at most once:
//
//	m.Set("count", 1)
//	m.Set("count", 2)
//	Flush() // the render watcher runs once, seeing 2
//
// The package is written for the framework's single-flush-in-flight,
// cooperative model; reads and writes may come from multiple goroutines,
// but only one Flush runs at a time.
package reactive
