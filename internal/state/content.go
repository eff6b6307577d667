package state

// Content is what a viewer tab can hold. LogPane is the only kind.
type Content interface {
	Title() string
	Close() error
	isContent()
}

func (*LogPane) isContent() {}

var _ Content = (*LogPane)(nil)
