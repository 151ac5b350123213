// Package transformer wires the Omniverse transformer module: storage, ledgers, oracle, relay, API and sweeper.
package transformer

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/omniverse-transformer/common"
	"github.com/gaze-network/omniverse-transformer/common/errs"
	"github.com/gaze-network/omniverse-transformer/internal/config"
	"github.com/gaze-network/omniverse-transformer/internal/postgres"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/api/httphandler"
	transformerconfig "github.com/gaze-network/omniverse-transformer/modules/transformer/config"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/datagateway"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/localtoken"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/relay"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/repository/inmemory"
	transformerpostgres "github.com/gaze-network/omniverse-transformer/modules/transformer/repository/postgres"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/statekeeper"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/sweeper"
	"github.com/gaze-network/omniverse-transformer/modules/transformer/usecase"
	"github.com/gaze-network/omniverse-transformer/pkg/httpclient"
	"github.com/gaze-network/omniverse-transformer/pkg/logger"
	"github.com/gaze-network/omniverse-transformer/pkg/logger/slogx"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/do/v2"
	"github.com/samber/lo"
)

const Version = "v0.1.0"

// Transformer is the running module. It is shut down by the injector.
type Transformer struct {
	usecase      *usecase.Usecase
	sweeper      *sweeper.Sweeper
	cleanupFuncs []func(context.Context) error
}

func New(injector do.Injector) (*Transformer, error) {
	ctx := logger.WithContext(do.MustInvoke[context.Context](injector), slogx.Stringer(logger.ModuleKey, common.ModuleTransformer))
	conf := do.MustInvoke[config.Config](injector).Transformer

	identity, err := conf.Identity()
	if err != nil {
		return nil, errors.Wrap(err, "invalid transformer configuration")
	}

	var (
		transformerDg datagateway.TransformerDataGateway
		cleanupFuncs  []func(context.Context) error
	)
	switch strings.ToLower(conf.Datasource) {
	case "postgresql", "postgres", "pg":
		pg, err := postgres.NewPool(ctx, conf.Postgres)
		if err != nil {
			if errors.Is(err, errs.InvalidArgument) {
				return nil, errors.Wrap(err, "Invalid Postgres configuration for transformer")
			}
			return nil, errors.Wrap(err, "can't create Postgres connection pool")
		}
		cleanupFuncs = append(cleanupFuncs, func(ctx context.Context) error {
			pg.Close()
			return nil
		})
		transformerDg = transformerpostgres.NewRepository(pg)
	case "memory", "":
		logger.WarnContext(ctx, "Transformer state is kept in memory and is lost on restart")
		transformerDg = inmemory.NewRepository()
	default:
		return nil, errors.Wrapf(errs.Unsupported, "%q datasource for transformer is not supported", conf.Datasource)
	}

	var localToken localtoken.Ledger
	switch strings.ToLower(conf.LocalToken.Type) {
	case "http":
		client, err := httpclient.New(conf.LocalToken.URL)
		if err != nil {
			return nil, errors.Wrap(err, "invalid local token configuration")
		}
		localToken = localtoken.NewClient(client)
	case "memory", "":
		localToken = localtoken.NewMemory()
	default:
		return nil, errors.Wrapf(errs.Unsupported, "%q local token ledger is not supported", conf.LocalToken.Type)
	}

	var stateKeeper statekeeper.Oracle
	switch {
	case conf.StateKeeper.URL != "":
		client, err := httpclient.New(conf.StateKeeper.URL)
		if err != nil {
			return nil, errors.Wrap(err, "invalid state keeper configuration")
		}
		stateKeeper = statekeeper.NewClient(client)
	case conf.StateKeeper.AcceptAll:
		logger.WarnContext(ctx, "State keeper reports every transaction as included")
		stateKeeper = statekeeper.NewAcceptAll()
	default:
		logger.WarnContext(ctx, "No state keeper configured, inbound transactions will be rejected as not included")
		stateKeeper = statekeeper.NewStatic()
	}

	notifier := relay.Multi{relay.LogNotifier{}}
	if conf.Relay.URL != "" {
		client, err := httpclient.New(conf.Relay.URL)
		if err != nil {
			return nil, errors.Wrap(err, "invalid relay configuration")
		}
		notifier = append(notifier, relay.NewWebhookNotifier(client))
	}

	transformerUsecase, err := usecase.New(identity, transformerDg, localToken, stateKeeper, notifier)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	httpServer := do.MustInvoke[*fiber.App](injector)
	if err := httphandler.New(transformerUsecase, conf.AdminToken).Mount(httpServer); err != nil {
		return nil, errors.Wrap(err, "can't mount Transformer API")
	}
	if conf.AdminToken == "" {
		logger.WarnContext(ctx, "No admin token configured, liquidity deposits over HTTP are disabled")
	}
	logger.InfoContext(ctx, "Mounted HTTP handler")

	t := &Transformer{
		usecase:      transformerUsecase,
		cleanupFuncs: cleanupFuncs,
	}
	if conf.Sweeper.Enabled {
		t.sweeper = sweeper.New(transformerUsecase, lo.Ternary(conf.Sweeper.Interval > 0, conf.Sweeper.Interval, transformerconfig.DefaultSweepInterval))
	}

	logger.InfoContext(ctx, "Transformer initialized",
		slogx.Stringer("address", identity.Address),
		slogx.Stringer("localAddress", identity.LocalAddress),
		slogx.Stringer(logger.AssetIdKey, identity.AssetId),
	)
	return t, nil
}

func (t *Transformer) Usecase() *usecase.Usecase { return t.usecase }

// Run starts the background jobs of the module and blocks until ctx is done.
func (t *Transformer) Run(ctx context.Context) error {
	ctx = logger.WithContext(ctx, slogx.Stringer(logger.ModuleKey, common.ModuleTransformer))
	if t.sweeper != nil {
		if err := t.sweeper.Start(ctx); err != nil {
			return errors.Wrap(err, "can't start sweeper")
		}
	}
	<-ctx.Done()
	return nil
}

func (t *Transformer) Shutdown(ctx context.Context) error {
	if t.sweeper != nil {
		t.sweeper.Stop()
	}
	var errList []error
	for _, cleanup := range t.cleanupFuncs {
		if err := cleanup(ctx); err != nil {
			errList = append(errList, err)
		}
	}
	return errors.WithStack(errors.Join(errList...))
}
