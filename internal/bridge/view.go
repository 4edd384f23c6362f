package bridge

// View is the page-side handle view code uses to call into the host. It
// holds a shared reference to its client and nothing else.
type View struct {
	client Invoker
}

var _ Descriptor = (*View)(nil)

func NewView(client Invoker) *View {
	return &View{client: client}
}

func (v *View) DescriptorKind() Kind {
	return KindView
}

// Invoke calls operation on the host's current view with positional args.
func (v *View) Invoke(operation string, args ...any) error {
	return v.client.InvokeRemote(v, operation, PostOptions{Args: args})
}
