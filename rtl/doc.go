// Package rtl provides a two-phase clock for modelling synchronous hardware.
//
// Every Block evaluates against committed state only and stages its next
// state. After all blocks are evaluated, the clock commits every block and
// every registered state element. Signals that cross block boundaries must be
// a Reg or a Chan so that evaluation order never changes the result. State
// that only the owning block reads may be updated in place during Eval.
package rtl
