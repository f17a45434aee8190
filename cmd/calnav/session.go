package main

import (
	"context"
	"fmt"

	"github.com/kuitang/screening-ui/internal/artifacts"
	"github.com/kuitang/screening-ui/internal/config"
	"github.com/kuitang/screening-ui/internal/errs"
	"github.com/kuitang/screening-ui/internal/obs"
	"github.com/kuitang/screening-ui/internal/pacing"
	"github.com/kuitang/screening-ui/internal/page"
	"github.com/kuitang/screening-ui/internal/page/cdppage"
	"github.com/kuitang/screening-ui/internal/page/pwpage"
	"github.com/kuitang/screening-ui/internal/urlutil"
)

// session is an open browser page plus the lifecycle calls the CLI needs.
type session interface {
	page.Accessor
	Goto(ctx context.Context, url string) error
	Capture(ctx context.Context) ([]byte, string, error)
	Close() error
}

type opener func(cfg *config.Config) (session, error)

func openBrowser(cfg *config.Config) (session, error) {
	if cfg.Driver == config.DriverChromedp {
		b, err := cdppage.Launch(cdppage.LaunchOptions{
			Headless:      cfg.Headless,
			ActionTimeout: cfg.ActionTimeout,
		})
		if err != nil {
			return nil, errs.Wrap(errs.Unavailable, "launch chrome", err)
		}
		return b, nil
	}
	b, err := pwpage.Launch(pwpage.LaunchOptions{
		Headless:      cfg.Headless,
		SlowMo:        cfg.SlowMo,
		ActionTimeout: cfg.ActionTimeout,
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// onPage opens the browser at rawURL, runs fn against a paced accessor, and
// saves failure artifacts when fn fails.
func (a *app) onPage(ctx context.Context, operation, rawURL string, fn func(ctx context.Context, acc page.Accessor) error) error {
	ctx = obs.WithRun(ctx)
	log := obs.From(ctx).With("pkg", "calnav", "operation", operation)

	target, err := urlutil.Resolve(a.cfg.BaseURL, rawURL)
	if err != nil {
		return err
	}

	sess, err := a.open(a.cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			log.Warn("browser close failed", "error", cerr)
		}
	}()

	pacer := pacing.NewPacer(a.cfg.Pacing)
	defer pacer.Stop()

	log.Info("opening page", "url", target, "driver", a.cfg.Driver)
	if err := sess.Goto(ctx, target); err != nil {
		return err
	}

	runErr := fn(ctx, pacer.Wrap(sess))
	if runErr == nil {
		return nil
	}
	log.Warn("operation failed", "error", runErr, "code", string(errs.CodeOf(runErr)))
	if errs.Is(runErr, errs.InvalidArgument) {
		// Rejected input never touched the page.
		return runErr
	}
	a.saveFailure(ctx, operation, sess)
	return runErr
}

// saveFailure uploads failure evidence. Upload problems are logged, never
// returned: the original failure is what the caller needs to see.
func (a *app) saveFailure(ctx context.Context, operation string, sess session) {
	log := obs.From(ctx).With("pkg", "calnav")
	if !a.cfg.ArtifactsEnabled() {
		log.Debug("artifact bucket not configured; skipping capture")
		return
	}
	png, html, err := sess.Capture(ctx)
	if err != nil {
		log.Warn("capture failed", "error", err)
		return
	}
	store, err := a.artifactStore(ctx)
	if err != nil {
		log.Warn("artifact store unavailable", "error", err)
		return
	}
	keys, err := store.SaveFailure(ctx, operation, artifacts.Capture{Screenshot: png, HTML: html})
	if err != nil {
		log.Warn("artifact upload failed", "error", err, "saved", keys)
		return
	}
	for _, k := range keys {
		fmt.Fprintf(a.err, "artifact: s3://%s/%s\n", store.BucketName(), k)
	}
}

func (a *app) artifactStore(ctx context.Context) (*artifacts.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	return artifacts.New(ctx, a.cfg.ArtifactConfig())
}
