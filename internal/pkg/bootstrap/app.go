// internal/pkg/bootstrap/app.go
package bootstrap

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"storefront/internal/pkg/logger"
	"storefront/internal/pkg/nacos"
	"storefront/internal/pkg/tracing"
)

const shutdownTimeout = 10 * time.Second

// AppCtx 是注册路由时可用的公共组件
type AppCtx struct {
	Mux      *http.ServeMux
	Config   Config
	Tracer   trace.Tracer
	Registry prometheus.Registerer
	// Nacos 仅在 infra.nacos.enabled 时非空
	Nacos *nacos.Client

	closers *[]func(ctx context.Context) error
}

// OnShutdown 注册一个在 HTTP 服务关闭后执行的清理函数（后注册的先执行）
func (a AppCtx) OnShutdown(fn func(ctx context.Context) error) {
	*a.closers = append(*a.closers, fn)
}

// AppInfo 包含了启动一个微服务所需的所有特定信息。
type AppInfo struct {
	ServiceName      string
	Port             int
	RegisterHandlers func(appCtx AppCtx) error // 每个服务注册自己的 HTTP 路由和依赖
}

var nacosClient *nacos.Client

// Init 加载配置并初始化日志。启用 Nacos 时会连接 Nacos，并用配置中心的内容覆盖本地配置。
func Init(serviceName string) {
	cfg, err := LoadConfig(getEnv("CONFIG_FILE", "configs/config.yaml"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Init(serviceName, cfg.App.LogLevel, cfg.App.LogPretty)

	if cfg.Infra.Nacos.Enabled {
		nacosClient, err = nacos.NewNacosClient(cfg.Infra.Nacos.ServerAddrs, cfg.Infra.Nacos.Namespace, cfg.Infra.Nacos.Group)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize nacos client")
		}
		if dataID := cfg.Infra.Nacos.ConfigDataID; dataID != "" {
			content, err := nacosClient.GetConfig(dataID)
			if err != nil {
				log.Fatal().Err(err).Str("dataId", dataID).Msg("failed to fetch remote config")
			}
			if err := mergeYAML(&cfg, []byte(content)); err != nil {
				log.Fatal().Err(err).Str("dataId", dataID).Msg("invalid remote config")
			}
		}
	}

	setCurrentConfig(cfg)
	log.Info().Str("env", cfg.App.Env).Bool("nacos", cfg.Infra.Nacos.Enabled).Msg("Configuration loaded")
}

// StartService 封装了所有微服务的通用启动和优雅关停逻辑。
func StartService(info AppInfo) {
	cfg := GetCurrentConfig()

	tp, err := tracing.InitTracerProvider(info.ServiceName, cfg.Infra.Jaeger.Endpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracer provider")
	}

	var closers []func(ctx context.Context) error
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	appCtx := AppCtx{
		Mux:      mux,
		Config:   cfg,
		Tracer:   otel.Tracer(info.ServiceName),
		Registry: prometheus.DefaultRegisterer,
		Nacos:    nacosClient,
		closers:  &closers,
	}
	if info.RegisterHandlers != nil {
		if err := info.RegisterHandlers(appCtx); err != nil {
			log.Fatal().Err(err).Str("service", info.ServiceName).Msg("failed to register handlers")
		}
	}

	// 启用 Nacos 时注册服务实例
	var ip string
	if nacosClient != nil {
		ip, err = outboundIP()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to get outbound IP address")
		}
		if err := nacosClient.RegisterServiceInstance(info.ServiceName, ip, info.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to register service with nacos")
		}
	}

	server := &http.Server{
		Addr:              ":" + strconv.Itoa(info.Port),
		Handler:           logger.Middleware(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("service", info.ServiceName).Int("port", info.Port).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Str("addr", server.Addr).Msg("could not listen")
		}
	}()

	// 优雅关停
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Str("service", info.ServiceName).Msg("Shutting down service...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// 按顺序清理：注销 -> 停止接收请求 -> 释放依赖 -> 刷新 trace
	if nacosClient != nil {
		if err := nacosClient.DeregisterServiceInstance(info.ServiceName, ip, info.Port); err != nil {
			log.Error().Err(err).Msg("Error deregistering from Nacos")
		}
		nacosClient.Close()
	}

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Error shutting down http server")
	}

	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](ctx); err != nil {
			log.Error().Err(err).Msg("Error running shutdown hook")
		}
	}

	if err := tp.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Error shutting down tracer provider")
	}

	log.Info().Str("service", info.ServiceName).Msg("Service gracefully shut down.")
}

// outboundIP 返回本机对外通信使用的 IP，用于服务注册
func outboundIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "", err
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String(), nil
}
