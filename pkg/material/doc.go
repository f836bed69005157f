// Package material provides pure-component property records for the
// flowsheet engine.
//
// A [Material] carries reference properties of a chemical species (molecular
// weight, density, viscosity, heat capacity, thermal conductivity) together
// with its critical constants. Temperature-dependent values come from
// deliberately crude first-order correlations:
//
//   - [Material.DensityAt]: ideal gas P·MW/(R·T) above the critical
//     temperature, otherwise the reference density
//   - [Material.ViscosityAt]: ref · exp(-0.01·(T-298))
//   - [Material.HeatCapacityAt]: ref · (1 + 0.001·(T-298))
//
// The coefficients are part of the engine's observable behavior and must not
// be tuned.
//
// # Registry
//
// Materials are looked up by name through a [Registry]. There is no
// package-level registry: each solver owns one and seeds it explicitly with
// [Registry.RegisterDefaults], so two engines never share definitions.
//
//	reg := material.NewRegistry()
//	reg.RegisterDefaults()
//	water, ok := reg.Get("Water")
package material
