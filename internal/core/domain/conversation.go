package domain

// Turn is one prior exchange in a conversation. History is supplied by the
// caller and is never persisted here.
type Turn struct {
	Query  string
	Answer string
}

// Caller identifies who is asking, so the assistant can tailor its answer.
type Caller struct {
	ID   string
	Name string
	Role string
}
