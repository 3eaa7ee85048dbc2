// Package plugins implements entry-point style plugin discovery. Packages
// advertise themselves by registering a factory under a group name, usually
// from an init function, and a host application enumerates the group to find
// them.
//
// Example usage:
//
//	func init() {
//	    _ = plugins.Default.Register("dellve.benchmarks", "conv", func(conf map[string]any) (any, error) {
//	        var c struct{ Iterations int `json:"iterations"` }
//	        if err := plugins.Decode(conf, &c); err != nil {
//	            return nil, err
//	        }
//	        return newConvBenchmark(c.Iterations), nil
//	    })
//	}
//
//	refs := plugins.Default.Discover("dellve.benchmarks")
//	bench, err := plugins.Default.Open(refs[0], nil)
package plugins
