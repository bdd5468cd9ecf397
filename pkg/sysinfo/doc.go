// Package sysinfo describes the device: model, L4T release, architecture,
// uptime and CPU topology.
//
// Two providers exist. QueryProvider reads the device tree, the
// nv_tegra_release file, sysfs CPU topology and host facts from gopsutil.
// StaticProvider returns generic Jetson defaults. Resolver uses the query
// when it succeeds and the static values otherwise, so callers always get
// a complete SystemInfo:
//
//	r := sysinfo.NewResolver(sysinfo.NewQueryProvider())
//	info := r.SystemInfo(ctx)
package sysinfo
