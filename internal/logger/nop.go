package logger

// Nop discards everything. Handy for tests.
type Nop struct{}

func NewNop() *Nop { return &Nop{} }

func (Nop) Info(string, string, map[string]interface{})    {}
func (Nop) Error(string, error, map[string]interface{})    {}
func (Nop) Warning(string, string, map[string]interface{}) {}
func (Nop) Debug(string, string, map[string]interface{})   {}
