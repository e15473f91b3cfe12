package svc

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"tradedash/internal/application/port"
	"tradedash/internal/application/usecase/dashboard"
	"tradedash/internal/infrastructure/config"
	"tradedash/internal/infrastructure/container"
	"tradedash/internal/infrastructure/tradeapi"
	"tradedash/internal/interfaces/console"
	"tradedash/internal/interfaces/wsapi"
)

type ServiceContext struct {
	Ctx    context.Context
	Config *config.Config

	// 基础设施层（第一层初始化）
	container *container.Container
	api       *tradeapi.Client
	repo      port.Repository

	// 输出端口
	Sink port.Sink

	// 会话及其展示层
	session *dashboard.Service
	ws      *wsapi.Server

	closerChain []func() error
}

// New 创建并初始化 ServiceContext
// 这是应用启动的唯一入口点，所有依赖初始化都在这里完成
func New(ctx context.Context, cfg *config.Config) (*ServiceContext, error) {
	sc := &ServiceContext{
		Ctx:         ctx,
		Config:      cfg,
		api:         tradeapi.NewClient(cfg.Service.BaseURL, cfg.ServiceTimeout()),
		Sink:        console.NewSink(),
		closerChain: make([]func() error, 0),
	}

	if err := sc.initializeComponents(); err != nil {
		_ = sc.Close()
		return nil, err
	}
	return sc, nil
}

// initializeComponents 按依赖顺序初始化：存储 -> 会话 -> websocket
func (sc *ServiceContext) initializeComponents() error {
	if err := sc.initializeStorage(); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageInitFailed, err)
	}

	sc.session = dashboard.NewService(sc.BuildDashboardDeps())

	if sc.Config.Server.Enabled {
		sc.ws = wsapi.NewServer(sc.session)
		sc.session.State().OnChange(func() { sc.ws.Broadcast(sc.session.Snapshot()) })
	}

	log.Info().
		Str("service", sc.Config.Service.BaseURL).
		Bool("journal", sc.repo != nil).
		Bool("ws_api", sc.ws != nil).
		Msg("components initialized")
	return nil
}

func (sc *ServiceContext) initializeStorage() error {
	c, err := container.New(sc.Config)
	if err != nil {
		return err
	}
	sc.container = c
	sc.closerChain = append(sc.closerChain, c.Close)

	sc.repo = c.Repository()
	if sc.Config.Storage.Enabled && sc.repo == nil {
		return ErrNoJournalBackends
	}
	return nil
}

// BuildDashboardDeps 构建会话所需的全部依赖
func (sc *ServiceContext) BuildDashboardDeps() dashboard.ServiceDeps {
	return dashboard.ServiceDeps{
		API:           sc.api,
		Sink:          sc.Sink,
		Repo:          sc.repo,
		PollInterval:  sc.Config.PollInterval(),
		Pulse:         sc.Config.Pulse(),
		SnapshotEvery: sc.Config.SnapshotEvery(),
		TradeAmount:   sc.Config.Trade.Amount,
		Base:          sc.Config.App.Base,
		Quote:         sc.Config.App.Quote,
	}
}

func (sc *ServiceContext) Session() *dashboard.Service { return sc.session }

func (sc *ServiceContext) WebSocket() *wsapi.Server { return sc.ws }

// Run 运行会话直到 Ctx 结束；websocket api 异常退出时会话一并结束
func (sc *ServiceContext) Run() error {
	ctx, cancel := context.WithCancel(sc.Ctx)
	defer cancel()

	if sc.ws != nil {
		go func() {
			if err := sc.ws.Run(ctx, sc.Config.Server.Addr); err != nil {
				log.Error().Err(err).Msg("websocket api exited")
				cancel()
			}
		}()
	}
	return sc.session.Run(ctx)
}

// Close 按照相反的顺序关闭所有资源
func (sc *ServiceContext) Close() error {
	for i := len(sc.closerChain) - 1; i >= 0; i-- {
		if err := sc.closerChain[i](); err != nil {
			log.Error().Err(err).Msg("error closing resource")
		}
	}
	sc.closerChain = nil
	return nil
}
