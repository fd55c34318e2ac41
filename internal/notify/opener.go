package notify

// PassthroughOpener is the server-side opener: the link travels back to
// the storefront in the dispatch result and the browser opens it there,
// so delivery into the result counts as opened.
type PassthroughOpener struct{}

func (PassthroughOpener) Open(string) error { return nil }
