package dynamo

// ComputeAcc runs the force pass without swapping, for white-box tests.
func (s *Simulation[T]) ComputeAcc() { s.computeAcc() }
