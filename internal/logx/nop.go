package logx

// discard drops every entry. It carries no state, so one value serves all callers.
type discard struct{}

var _ Logger = discard{}

// Nop returns a Logger that drops everything.
func Nop() Logger { return discard{} }

func (discard) Debug(string, ...Field) {}
func (discard) Info(string, ...Field)  {}
func (discard) Warn(string, ...Field)  {}
func (discard) Error(string, ...Field) {}
func (discard) With(...Field) Logger   { return discard{} }
func (discard) Sync() error            { return nil }
