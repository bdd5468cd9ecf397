// Package fallback estimates device metrics from kernel pseudo-files when
// tegrastats is unavailable.
//
// The estimate is coarse. Memory comes from /proc/meminfo, CPU usage is
// derived from the one minute load average divided by the number of
// processors in /proc/cpuinfo, and temperatures come from the configured
// thermal zones under /sys/class/thermal. GPU utilization and rail power
// are not available and stay zero.
//
// The CPU figure is the same for every core and is capped at 100 percent.
// It is a load proxy, not a per-core utilization measurement: a saturated
// run queue and a genuinely busy CPU both read as 100.
//
// Estimate is a pure function over an Input. Reader loads an Input from a
// procfs and sysfs root, which tests point at a temporary directory.
// Memory, load and processor count are read with gopsutil; when the root
// has no loadavg, gopsutil falls back to the sysinfo syscall:
//
//	r := fallback.NewReader(fallback.WithProcRoot(dir+"/proc"))
//	m, err := fallback.NewEstimator(r).Estimate(ctx, time.Now())
package fallback
