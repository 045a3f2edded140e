package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"viralforge_dev_v1_202608/internal/controller"
	"viralforge_dev_v1_202608/internal/middleware"
	"viralforge_dev_v1_202608/internal/model"
	"viralforge_dev_v1_202608/internal/repository"
	"viralforge_dev_v1_202608/internal/router"
	"viralforge_dev_v1_202608/internal/service"
	"viralforge_dev_v1_202608/internal/task"
	"viralforge_dev_v1_202608/pkg/database"
	"viralforge_dev_v1_202608/pkg/utils"
)

// ==================== 环境变量工具 ====================

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("[Config] %s 不是合法整数, 使用默认值 %d", key, defaultValue)
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}

// ==================== 依赖容器 ====================

// Repositories 数据访问层
type Repositories struct {
	Content  repository.ContentRepository
	Trending repository.TrendingRepository
	AILog    repository.AILogRepository
}

// Services 业务层
type Services struct {
	Storage   *service.StorageService
	AI        *service.AIService
	Generator *service.GeneratorService
	Content   *service.ContentService
	Trend     *service.TrendService
}

func main() {
	// 加载 .env，不存在时依赖进程环境变量
	if err := godotenv.Load(); err != nil {
		log.Println("[Config] 未找到 .env 文件, 使用系统环境变量")
	}

	// ==================== 数据库 ====================
	dsn := getEnv("DATABASE_URL", "host=localhost user=viralforge password=viralforge dbname=viralforge port=5432 sslmode=disable")
	db := database.InitDB(dsn,
		&model.ContentItem{},
		&model.MediaAsset{},
		&model.TrendingTopic{},
		&model.AICallLog{},
	)

	repos := &Repositories{
		Content:  repository.NewContentRepository(db),
		Trending: repository.NewTrendingRepository(db),
		AILog:    repository.NewAILogRepository(db),
	}

	// ==================== 存储 ====================
	storageCfg := service.StorageConfig{
		Provider:     getEnv("STORAGE_PROVIDER", "local"),
		LocalDir:     getEnv("STORAGE_LOCAL_DIR", "./media"),
		LocalBaseURL: getEnv("STORAGE_LOCAL_BASE_URL", "/media"),
		S3Region:     getEnv("S3_REGION", "us-east-1"),
		S3Bucket:     getEnv("S3_BUCKET", ""),
		S3AccessKey:  getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:  getEnv("S3_SECRET_KEY", ""),
		S3CDNDomain:  getEnv("S3_CDN_DOMAIN", ""),
	}
	provider, err := service.NewStorageProvider(storageCfg)
	if err != nil {
		log.Fatalf("[Main] 初始化存储失败: %v", err)
	}
	storage := service.NewStorageService(provider)

	// ==================== 业务服务 ====================
	aiCfg := service.AIConfig{
		APIKey:     getEnv("GEMINI_API_KEY", ""),
		TextModel:  getEnv("GEMINI_TEXT_MODEL", ""),
		ImageModel: getEnv("GEMINI_IMAGE_MODEL", ""),
		BaseURL:    getEnv("GEMINI_BASE_URL", ""),
	}
	ai := service.NewAIService(aiCfg, storage, repos.AILog)

	genCfg := service.DefaultGeneratorConfig()
	genCfg.DailyCount = getEnvInt("DAILY_CONTENT_COUNT", genCfg.DailyCount)
	genCfg.DurationMinSeconds = getEnvInt("VIDEO_DURATION_MIN", genCfg.DurationMinSeconds)
	genCfg.DurationMaxSeconds = getEnvInt("VIDEO_DURATION_MAX", genCfg.DurationMaxSeconds)
	genCfg.DefaultLocations = getEnvList("TARGET_LOCATIONS", genCfg.DefaultLocations)
	genCfg.DefaultAgeGroups = getEnvList("TARGET_AGE_GROUPS", genCfg.DefaultAgeGroups)
	if types := getEnvList("CONTENT_TYPES", nil); len(types) > 0 {
		cts := make([]model.ContentType, 0, len(types))
		for _, t := range types {
			cts = append(cts, model.ContentType(t))
		}
		genCfg.ContentTypes = cts
	}

	generator, err := service.NewGeneratorService(genCfg, ai)
	if err != nil {
		log.Fatalf("[Main] 初始化生成服务失败: %v", err)
	}

	svcs := &Services{
		Storage:   storage,
		AI:        ai,
		Generator: generator,
		Content:   service.NewContentService(repos.Content),
		Trend: service.NewTrendService(
			service.TrendConfig{
				APIURL: getEnv("TRENDS_API_URL", ""),
				APIKey: getEnv("TRENDS_API_KEY", ""),
			},
			utils.NewHTTPClient(30*time.Second),
			repos.Trending,
		),
	}

	// ==================== 定时任务 ====================
	dailyTask := task.NewContentGenerationTask(svcs.Generator, svcs.Content)
	trendingTask := task.NewTrendingRefreshTask(svcs.Trend)
	cleanupTask := task.NewContentCleanupTask(svcs.Content, getEnvInt("CONTENT_RETENTION_DAYS", 30))

	tm := task.NewTaskManager()
	mustRegister(tm, "daily_content_generation", getEnv("CRON_DAILY_GENERATION", "0 0 6 * * *"), dailyTask)
	mustRegister(tm, "trending_refresh", getEnv("CRON_TRENDING_REFRESH", "0 0 */6 * * *"), trendingTask)
	mustRegister(tm, "content_cleanup", getEnv("CRON_CONTENT_CLEANUP", "0 0 3 * * *"), cleanupTask)
	tm.Start()
	defer tm.Stop()

	// ==================== 路由 ====================
	limiter := middleware.NewSyncRateLimiter()
	ctls := &router.Controllers{
		Content:  controller.NewContentController(svcs.Generator, svcs.Content, dailyTask, limiter),
		Usage:    controller.NewUsageController(repos.AILog),
		Trending: controller.NewTrendingController(svcs.Trend, limiter),
	}

	if getEnv("GIN_MODE", "") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	router.InitRoutes(r, ctls)

	// 本地存储时暴露媒体目录
	if storageCfg.Provider == "local" || storageCfg.Provider == "" {
		r.Static("/media", storageCfg.LocalDir)
	}

	// ==================== 启动与优雅退出 ====================
	port := getEnv("PORT", "8080")
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		log.Printf("[Main] 服务启动, 监听端口 %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[Main] 服务启动失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("[Main] 收到退出信号, 开始关闭")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[Main] 服务关闭异常: %v", err)
	}
	log.Println("[Main] 服务已退出")
}

func mustRegister(tm *task.TaskManager, name, spec string, t task.ScheduledTask) {
	if err := tm.Register(name, spec, t); err != nil {
		log.Fatalf("[Main] 注册任务 %s 失败: %v", name, err)
	}
}
