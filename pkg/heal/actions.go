package heal

import "context"

// Click resolves candidates once and clicks the result. Errors from the
// click itself are returned as the element produced them.
func (l *Locator) Click(ctx context.Context, candidates []string, opts Options) error {
	el, err := l.Find(ctx, candidates, opts)
	if err != nil {
		return err
	}
	return el.Click(ctx)
}

// Fill resolves candidates once and sets the element's value.
func (l *Locator) Fill(ctx context.Context, candidates []string, value string, opts Options) error {
	el, err := l.Find(ctx, candidates, opts)
	if err != nil {
		return err
	}
	return el.Fill(ctx, value)
}

// Press resolves candidates once and sends key to the element.
func (l *Locator) Press(ctx context.Context, candidates []string, key string, opts Options) error {
	el, err := l.Find(ctx, candidates, opts)
	if err != nil {
		return err
	}
	return el.Press(ctx, key)
}
