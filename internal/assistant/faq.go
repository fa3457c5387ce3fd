package assistant

// FAQ is the fixed list of common questions offered by the faq command.
var FAQ = []string{
	"What is schema evolution in Snowflake?",
	"Which file formats support schema evolution?",
	"How do I safely add new columns without data loss?",
	"How to handle datatype changes (e.g., VARCHAR -> NUMBER)?",
	"What are best practices for enabling schema evolution with COPY INTO or Snowpipe?",
}
