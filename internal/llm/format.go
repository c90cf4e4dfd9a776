package llm

// Formatter wraps a system/user prompt pair into the delimiter format a model family expects.
type Formatter interface {
	Format(system, user string) string
}

// FormatterFunc adapts a function to Formatter.
type FormatterFunc func(system, user string) string

// Format calls f(system, user).
func (f FormatterFunc) Format(system, user string) string {
	return f(system, user)
}

// Llama3Formatter renders the Llama 3 chat header-token layout and leaves the
// assistant turn open for the model to complete.
type Llama3Formatter struct{}

// Format implements Formatter.
func (Llama3Formatter) Format(system, user string) string {
	return "<|begin_of_text|><|start_header_id|>system<|end_header_id|>\n\n" +
		system +
		"<|eot_id|><|start_header_id|>user<|end_header_id|>\n\n" +
		user +
		"<|eot_id|><|start_header_id|>assistant<|end_header_id|>"
}
