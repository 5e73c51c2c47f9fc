package tickfsm

type optional[A any] struct {
	value A
	valid bool
}

type result[A any] struct {
	optional  optional[A]
	panicked  bool
	recovered any
}

// unarySupplierFunc is a function that doesn't take any arguments and returns a value of type R.
type unarySupplierFunc[R any] func() R

func tryUnarySupplier[R any](supply unarySupplierFunc[R]) (res result[R]) {
	defer func() {
		if r := recover(); r != nil {
			res.panicked = true
			res.recovered = r
		}
	}()
	got := supply()
	res.optional = optional[R]{value: got, valid: true}
	return
}

// tryProcedure runs fn and returns the recovered panic value, if any.
func tryProcedure(fn func()) (recovered any, panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			recovered, panicked = r, true
		}
	}()
	fn()
	return nil, false
}
