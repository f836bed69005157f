// Package unit implements the five unit operations of a flowsheet.
//
// Every unit satisfies [Operation]. Ports are fixed per type when the unit
// is constructed:
//
//	Mixer          in1, in2, in3       -> out
//	Splitter       in                  -> out1, out2, out3
//	HeatExchanger  hot_in, cold_in     -> hot_out, cold_out
//	Reactor        in                  -> out
//	Separator      in                  -> liquid_out, vapor_out
//
// Units hold pointers to the streams bound to their ports but never to other
// units; the solver owns the connection list and resolves dependencies by
// stream id.
//
// The models are deliberately simple. The reactor converts a fraction of the
// first component into a synthesized "Product", the separator splits flow by
// efficiency without a flash calculation, and the heat exchanger moves a
// fixed duty between two streams' specific enthalpies.
package unit
