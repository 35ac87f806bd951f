package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/iziplay/gallery/pkg/category"
	"github.com/iziplay/gallery/pkg/collection"
	"github.com/iziplay/gallery/pkg/device"
	"github.com/iziplay/gallery/pkg/imageloader"
	"github.com/iziplay/gallery/pkg/loop"
	"github.com/iziplay/gallery/pkg/results"
	"github.com/iziplay/gallery/pkg/viewport"
	"github.com/urfave/cli/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"
)

var searchCommand = &cli.Command{
	Name:      "search",
	Usage:     "search the collection and print the gallery",
	ArgsUsage: "QUERY",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "filter", Usage: "place to filter on, or All"},
		&cli.BoolFlag{Name: "touch", Usage: "behave as a touch screen"},
		&cli.BoolFlag{Name: "images", Value: true, Usage: "load the images of visible records"},
		&cli.IntFlag{Name: "height", Value: 900, Usage: "viewport height in pixels"},
		&cli.IntFlag{Name: "margin", Value: viewport.DefaultMargin.Bottom, Usage: "pixels below the viewport where image loading starts"},
		&cli.IntFlag{Name: "limit", Value: collection.DefaultLimit, Usage: "maximum number of records"},
		&cli.DurationFlag{Name: "timeout", Value: time.Minute},
		&cli.StringFlag{Name: "api-url", Value: collection.DefaultSearchURL, EnvVars: []string{"COLLECTION_API_URL"}},
		&cli.StringFlag{Name: "media-url", Value: collection.DefaultMediaURL, EnvVars: []string{"COLLECTION_MEDIA_URL"}},
		&cli.StringFlag{Name: "item-url", Value: collection.DefaultItemURL, EnvVars: []string{"COLLECTION_ITEM_URL"}},
		&cli.Float64Flag{Name: "rate", Value: 5, Usage: "search requests per second", EnvVars: []string{"COLLECTION_RATE"}},
	},
	Action: search,
}

func search(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return cli.Exit("a search query is required", 1)
	}

	ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
	defer cancel()

	if c.Bool("otel") {
		shutdown, err := setupTracing(ctx, "gallery-search")
		if err != nil {
			return err
		}
		defer shutdown(context.Background())
	}

	lp := loop.New()
	go func() {
		if err := lp.Run(ctx); err != nil && ctx.Err() == nil {
			slog.Error("Loop stopped", "error", err)
		}
	}()

	httpClient := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	client := collection.NewClient(
		collection.WithSearchURL(c.String("api-url")),
		collection.WithRate(c.Float64("rate")),
		collection.WithLimit(c.Int("limit")),
	)
	vp := viewport.New(c.Int("height"))
	var fetcher imageloader.Fetcher = imageloader.NewHTTPFetcher(httpClient)
	if !c.Bool("images") {
		fetcher = noFetch{}
	}
	loader := imageloader.New(
		fetcher,
		vp,
		imageloader.WithDispatch(lp.Post),
		imageloader.WithContext(ctx),
		imageloader.WithMargin(viewport.Margin{Bottom: c.Int("margin")}),
	)

	ctl := results.New(client, loader, vp, results.Config{
		Assets:   collection.Assets{MediaURL: c.String("media-url"), ItemURL: c.String("item-url")},
		Device:   device.Probe{TouchEvents: c.Bool("touch")},
		Dispatch: lp.Post,
	})

	select {
	case <-ctl.Search(ctx, query):
	case <-ctx.Done():
		return ctx.Err()
	}

	var filterErr error
	if filter := c.String("filter"); filter != "" {
		if err := lp.Do(ctx, func() { filterErr = applyFilter(ctl, filter) }); err != nil {
			return err
		}
		if filterErr != nil {
			return cli.Exit(filterErr.Error(), 1)
		}
	}

	var tasks []*imageloader.Task
	if err := lp.Do(ctx, func() {
		printGallery(c.App.Writer, ctl)
		for _, card := range ctl.Cards() {
			if t := card.Task(); t != nil && t.Started() {
				tasks = append(tasks, t)
			}
		}
	}); err != nil {
		return err
	}

	if !c.Bool("images") {
		return nil
	}
	return waitImages(ctx, c.App.Writer, tasks)
}

// applyFilter clicks through the filter bar the way a visitor would.
func applyFilter(ctl *results.Controller, filter string) error {
	bar := ctl.Bar()
	if filter == category.All {
		header := bar.Header(category.All)
		if header == nil {
			return errors.New("nothing to filter")
		}
		header.Click()
		return nil
	}

	header := bar.Header(category.Key(filter))
	row := bar.Row(filter)
	if header == nil || row == nil {
		return fmt.Errorf("no result was found in %q", filter)
	}
	header.Click()
	row.Click()
	return nil
}

func printGallery(out io.Writer, ctl *results.Controller) {
	if msg, shown := ctl.Notice(); shown {
		fmt.Fprintln(out, msg)
		return
	}

	ix := ctl.Index()
	if ix != nil {
		for _, key := range ix.Keys() {
			if key == category.All {
				continue
			}
			fmt.Fprintf(out, "%s: %s\n", key, strings.Join(ix.Places(key), ", "))
		}
		fmt.Fprintln(out)
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STATE\tPLACE\tRECORD\tSOURCE")
	for _, card := range ctl.Cards() {
		src, _ := card.Source.Attr("href")
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", card.Activity(), card.Record.PlaceName(), card.Summary(), src)
	}
	w.Flush()
	if sel, ok := ctl.Bar().Active(); ok {
		fmt.Fprintf(out, "\nfilter: %s\n", sel)
	}
}

// waitImages follows every started image load until it settles.
func waitImages(ctx context.Context, out io.Writer, tasks []*imageloader.Task) error {
	lines := make(chan string)
	g, gctx := errgroup.WithContext(ctx)
	for _, t := range tasks {
		g.Go(func() error {
			updates, cleanup := t.Subscribe()
			defer cleanup()
			_, high := t.URLs()
			for {
				select {
				case p, ok := <-updates:
					if !ok {
						return nil
					}
					if p.State.Terminal() {
						line := fmt.Sprintf("%s %s", p.State, high)
						if p.Err != nil {
							line += ": " + p.Err.Error()
						}
						select {
						case lines <- line:
						case <-gctx.Done():
							return gctx.Err()
						}
					}
				case <-gctx.Done():
					t.Cancel()
					return gctx.Err()
				}
			}
		})
	}

	go func() {
		g.Wait()
		close(lines)
	}()
	for line := range lines {
		fmt.Fprintln(out, line)
	}
	return g.Wait()
}

// noFetch refuses every image fetch.
type noFetch struct{}

func (noFetch) Fetch(context.Context, string, func(received, total int64)) ([]byte, error) {
	return nil, errImagesDisabled
}

var errImagesDisabled = errors.New("image loading disabled")
