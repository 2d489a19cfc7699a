package handlers

import "net/url"

const (
	confirmField = "confirm"
	confirmYes   = "yes"
)

// formConfirmer answers a confirmation prompt from the submitted form. An empty answer
// means the user has not been asked yet.
type formConfirmer struct {
	answer string
	prompt string
}

func newFormConfirmer(form url.Values) *formConfirmer {
	return &formConfirmer{answer: form.Get(confirmField)}
}

func (c *formConfirmer) Confirm(prompt string) bool {
	c.prompt = prompt
	return c.answer == confirmYes
}

// pending reports whether the prompt still has to be shown.
func (c *formConfirmer) pending() bool {
	return c.prompt != "" && c.answer == ""
}
