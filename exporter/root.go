package exporter

import (
	"context"
	"errors"
	"fmt"

	"github.com/sitepack/sitepack/vtree"
)

// ErrNoPageSource is returned when the default template runs against a
// source that cannot render a page.
var ErrNoPageSource = errors.New("source does not provide page content")

// PageSource is the view of the host application the default template
// renders. Custom roots are free to ignore it and read the run's source
// directly.
type PageSource interface {
	HTML(ctx context.Context) (string, error)
	CSS(ctx context.Context) (string, error)
}

// StaticState is a fixed PageSource, used for scaffolding and tests.
type StaticState struct {
	Body   string
	Styles string
}

func (s StaticState) HTML(context.Context) (string, error) { return s.Body, nil }
func (s StaticState) CSS(context.Context) (string, error)  { return s.Styles, nil }

const indexDocument = `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8">
    <link rel="stylesheet" href="./css/style.css">
  </head>
  <body>
%s
  </body>
</html>
`

// DefaultRoot returns the standard export layout: index.html linking
// ./css/style.css, both rendered from the run's PageSource.
func DefaultRoot() vtree.Node {
	return vtree.NewDir(
		vtree.Entry{Name: "index.html", Node: renderPage(func(ctx context.Context, page PageSource) (string, error) {
			body, err := page.HTML(ctx)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf(indexDocument, body), nil
		})},
		vtree.Entry{Name: "css", Node: vtree.NewDir(
			vtree.Entry{Name: "style.css", Node: renderPage(func(ctx context.Context, page PageSource) (string, error) {
				return page.CSS(ctx)
			})},
		)},
	)
}

// renderPage adapts a PageSource render func to a vtree.Provider, failing
// when the run's source is not a PageSource.
func renderPage(render func(ctx context.Context, page PageSource) (string, error)) vtree.Provider {
	return func(ctx context.Context, src vtree.Source) (vtree.Node, error) {
		page, ok := src.(PageSource)
		if !ok {
			return nil, fmt.Errorf("%w (got %T)", ErrNoPageSource, src)
		}
		content, err := render(ctx, page)
		if err != nil {
			return nil, err
		}
		return vtree.Leaf(content), nil
	}
}
