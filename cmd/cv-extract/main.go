package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cv-extract-go/internal/api/handler"
	"cv-extract-go/internal/api/router"
	"cv-extract-go/internal/config"
	"cv-extract-go/internal/parser"
	"cv-extract-go/internal/processor"
	"cv-extract-go/internal/storage"
	"cv-extract-go/internal/taxonomy"
	"cv-extract-go/internal/tracing"

	"github.com/rs/zerolog"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	hertzconfig "github.com/cloudwego/hertz/pkg/common/config"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	appCoreLogger "cv-extract-go/internal/logger"

	glog "github.com/cloudwego/hertz/pkg/common/hlog"
	hertzadapter "github.com/hertz-contrib/logger/zerolog"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"
)

func main() {
	// .env仅用于本地开发覆盖，缺失不报错
	_ = godotenv.Load()
	initLogger()

	var configPath string
	var cvFilePath string
	var cvFileKind string
	pflag.StringVarP(&configPath, "config", "c", "internal/config/config.yaml", "配置文件路径")
	pflag.StringVarP(&cvFilePath, "file", "f", "", "单文件模式：解析指定简历文件并输出JSON后退出")
	pflag.StringVarP(&cvFileKind, "kind", "k", "", "单文件模式下声明的文件类型(pdf/jpg/jpeg/png)，缺省按扩展名推断")
	pflag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		glog.Fatalf("加载配置失败: %v", err)
	}
	glog.Info("配置加载成功")
	applyLogLevel(cfg.Logger.Level)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Tracing.Enabled {
		shutdownTracing, err := tracing.InitProvider(ctx, cfg.Tracing.Endpoint)
		if err != nil {
			glog.Warnf("初始化链路追踪失败，继续以无追踪模式运行: %v", err)
		} else {
			defer func() {
				shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancelShutdown()
				if err := shutdownTracing(shutdownCtx); err != nil {
					glog.Warnf("关闭链路追踪失败: %v", err)
				}
			}()
			glog.Info("链路追踪初始化成功")
		}
	}

	pipeline := buildPipeline(ctx, cfg)
	glog.Info("抽取管线初始化成功")

	// 单文件模式：不依赖任何外部存储，解析后输出JSON退出
	if cvFilePath != "" {
		runSingleFile(ctx, pipeline, cvFilePath, cvFileKind)
		return
	}

	storageManager, err := storage.NewStorage(ctx, cfg)
	if err != nil {
		glog.Fatalf("初始化存储失败: %v", err)
	}
	defer storageManager.Close()
	glog.Info("存储服务初始化成功")

	cvHandler := handler.NewCVHandler(cfg, storageManager, pipeline)
	glog.Info("CVHandler初始化成功")

	serverOpts := []hertzconfig.Option{
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
	}
	var hertzTracerCfg *hertztracing.Config
	if cfg.Tracing.Enabled {
		tracerOpt, tracerCfg := hertztracing.NewServerTracer()
		serverOpts = append(serverOpts, tracerOpt)
		hertzTracerCfg = tracerCfg
	}

	h := server.New(serverOpts...)
	if hertzTracerCfg != nil {
		h.Use(hertztracing.ServerMiddleware(hertzTracerCfg))
	}
	h.Use(func(c context.Context, ctx *app.RequestContext) {
		glog.CtxInfof(c, "Request: %s %s", string(ctx.Method()), string(ctx.Path()))
		ctx.Next(c)
		glog.CtxInfof(c, "Response: status %d", ctx.Response.StatusCode())
	})

	router.RegisterRoutes(h, cvHandler)
	glog.Info("HTTP路由注册成功")

	glog.Infof("HTTP 服务器启动中，监听地址: %s", cfg.Server.Address)
	go func() {
		if err := h.Run(); err != nil {
			glog.Fatalf("启动HTTP服务器失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	glog.Info("接收到终止信号，正在优雅退出...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := h.Shutdown(shutdownCtx); err != nil {
		glog.Fatalf("服务器关闭失败: %v", err)
	}
	glog.Info("优雅退出完成")
}

// buildPipeline 按配置装配文本采集链与字段抽取管线
func buildPipeline(ctx context.Context, cfg *config.Config) *processor.CVPipeline {
	componentLogger := func(prefix string) *log.Logger {
		if cfg.Logger.Level == "debug" {
			return log.New(os.Stderr, prefix, log.LstdFlags)
		}
		return log.New(io.Discard, "", 0)
	}

	spatial := parser.NewSpatialPDFExtractor(parser.WithSpatialLogger(componentLogger("[空间提取] ")))

	var sequential processor.SequentialExtractor
	einoExtractor, err := parser.NewEinoPDFTextExtractor(ctx, parser.WithEinoLogger(componentLogger("[顺序提取] ")))
	if err != nil {
		glog.Warnf("创建顺序PDF提取器失败，该降级路径不可用: %v", err)
	} else {
		sequential = einoExtractor
	}

	renderer := parser.NewFitzPageRenderer(
		parser.WithRenderDPI(cfg.OCR.RenderDPI),
		parser.WithFitzLogger(componentLogger("[页面渲染] ")),
	)
	ocr := parser.NewTesseractOCR(
		parser.WithOCRLanguages(cfg.OCR.Languages),
		parser.WithOCRTimeout(cfg.OCRTimeout()),
		parser.WithOCRLogger(componentLogger("[OCR] ")),
	)

	acquirer := processor.NewDefaultTextAcquirer(spatial, sequential, renderer, ocr,
		processor.WithPageTextThreshold(cfg.Pipeline.MinPageTextLen),
		processor.WithDocTextThreshold(cfg.Pipeline.MinDocTextLen),
		processor.WithPreferSequential(cfg.Pipeline.AcquisitionStrategy == "sequential"),
		processor.WithAcquirerLogger(componentLogger("[文本采集] ")),
	)

	segmenter := processor.NewFuzzySectionSegmenter(
		processor.WithSectionThreshold(cfg.Pipeline.SectionFuzzyThreshold),
		processor.WithRegroupShortLines(cfg.Pipeline.RegroupShortLines),
	)

	skills := taxonomy.Load(cfg.Skills.DatasetPath, taxonomy.WithLogger(componentLogger("[技能词表] ")))

	return processor.NewCVPipeline(
		processor.Components{
			Acquirer:  acquirer,
			Segmenter: segmenter,
			Skills:    skills,
		},
		processor.Settings{
			SkillFuzzyThreshold: cfg.Pipeline.SkillFuzzyThreshold,
			HeaderScanLines:     cfg.Pipeline.HeaderScanLines,
			DescriptionMaxLen:   cfg.Pipeline.DescriptionMaxLen,
			MinUsableTextLen:    cfg.Pipeline.MinUsableTextLen,
			ExtraExcludedWords:  cfg.Skills.ExtraExcludedWords,
		},
		nil, nil,
	)
}

// runSingleFile 命令行单文件解析模式
func runSingleFile(ctx context.Context, pipeline *processor.CVPipeline, filePath string, declaredKind string) {
	kind := handler.ResolveFileKind(declaredKind, filePath)
	profile, err := pipeline.ExtractFromFile(ctx, filePath, kind)
	if err != nil {
		glog.Fatalf("解析失败: %v", err)
	}

	output, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		glog.Fatalf("序列化结果失败: %v", err)
	}
	fmt.Println(string(output))
}

func applyLogLevel(levelName string) {
	level, err := zerolog.ParseLevel(levelName)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	switch level {
	case zerolog.DebugLevel:
		glog.SetLevel(glog.LevelDebug)
	case zerolog.WarnLevel:
		glog.SetLevel(glog.LevelWarn)
	case zerolog.ErrorLevel:
		glog.SetLevel(glog.LevelError)
	default:
		glog.SetLevel(glog.LevelInfo)
	}
}

func initLogger() {
	logFilePath := "logs/app.log"
	if err := os.MkdirAll("logs", 0o755); err != nil {
		log.Fatalf("无法创建日志目录: %v", err)
	}
	fileWriter, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.Fatalf("无法打开日志文件 %s: %v", logFilePath, err)
	}

	appCoreLogger.Init(appCoreLogger.Config{
		Level:        "info",
		Format:       "pretty",
		TimeFormat:   "15:04:05",
		ReportCaller: true,
	}, fileWriter)

	hertzCompatibleLogger := hertzadapter.From(appCoreLogger.Logger)
	glog.SetLogger(hertzCompatibleLogger)
	glog.SetLevel(glog.LevelInfo)
}
