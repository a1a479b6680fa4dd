package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal" // (우아한 종료)
	"strings"
	"syscall" // (우아한 종료)
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/storage/mysql/v2" // (레이트 리밋 카운터 스토어)
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/sizzlei/confloader"

	"weeklypulse/internal/channel"
	"weeklypulse/internal/config"
	"weeklypulse/internal/dashboard"
	"weeklypulse/internal/database"
	"weeklypulse/internal/member"
	"weeklypulse/internal/membership"
	"weeklypulse/internal/middleware"
	"weeklypulse/internal/schedule"
	"weeklypulse/internal/scheduler"
	"weeklypulse/internal/slackbot"
	"weeklypulse/internal/web"
)

var configSections = []string{"repository", "slack", "server"}

func main() {
	var configPath, configFile, region string
	var runMigrations bool
	flag.StringVar(&configPath, "conf", "/dba/service/infra/weeklypulse", "parameter store key")
	flag.StringVar(&configFile, "file", "", "local yaml config (parameter store 대신 사용)")
	flag.StringVar(&region, "region", "ap-northeast-2", "parameter store region")
	flag.BoolVar(&runMigrations, "migrate", true, "시작 시 DB 마이그레이션 적용")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Debugf(".env 파일 없음: %v", err)
	}

	// Configure File load
	sections, err := loadSections(configFile, region, configPath)
	if err != nil {
		log.Panic(err)
	}
	cfg, err := config.Load(sections)
	if err != nil {
		log.Fatalf("설정 로드 실패: %v", err)
	}
	setupLogger(cfg.Server)

	// DB 연결
	dbo, err := database.CreateConnection(database.DBI{
		User:     cfg.Repository.User,
		Password: cfg.Repository.Password,
		Endpoint: cfg.Repository.Endpoint,
		Port:     cfg.Repository.Port,
		Database: cfg.Repository.Database,
	})
	if err != nil {
		log.Fatalf("Repository Connection failed. %v", err)
	}
	log.Info("Successfully connected to the database.")

	if runMigrations {
		if err := database.RunMigrations(dbo.DB); err != nil {
			log.Fatalf("DB 마이그레이션 실패: %v", err)
		}
	}

	limiterStorage := mysql.New(mysql.Config{
		Db:    dbo.DB, // (*sqlx.DB에서 표준 *sql.DB 추출)
		Table: "fiber_rate_limits",
	})

	// 의존성 조립 (Dependency Injection)

	// Slack 봇 (토큰이 없으면 Slack 연동 기능만 비활성화)
	var (
		userLookup    member.UserLookup
		channelLister channel.ConversationLister
		infoGetter    membership.ConversationInfoGetter
		messenger     schedule.DirectMessenger
		identifier    slackbot.Identifier
		notifier      scheduler.ChannelNotifier
	)
	bot, err := slackbot.New(cfg.Slack.BotToken)
	if err != nil {
		log.Warnf("Slack 연동 비활성화: %v", err)
	} else {
		api := bot.Client()
		userLookup, channelLister, infoGetter = api, api, api
		messenger, identifier, notifier = bot, bot, bot
	}

	// Member
	memberStore := member.NewStore(dbo)
	memberService := member.NewService(memberStore, userLookup)
	memberHandler := member.NewMemberHandler(memberService)

	// Channel
	channelStore := channel.NewStore(dbo)
	channelService := channel.NewService(channelStore, channelLister, cfg.Server.SearchLimit)
	channelHandler := channel.NewChannelHandler(channelService)

	// Schedule
	scheduleStore := schedule.NewStore(dbo)
	scheduleService := schedule.NewService(scheduleStore, memberService, messenger).WithChannelNames(channelService)
	scheduleHandler := schedule.NewScheduleHandler(scheduleService)

	// Membership
	checker := membership.NewSlackChecker(infoGetter)
	membershipHandler := membership.NewMembershipHandler(checker)

	// Slackbot
	slackbotHandler := slackbot.NewSlackbotHandler(identifier)

	// Dashboard
	dashboardService := dashboard.NewService(scheduleStore, channelStore, memberStore)
	dashboardHandler := dashboard.NewDashboardHandler(dashboardService)

	// Scheduler
	jobs := scheduler.NewScheduler(channelService, memberService, scheduleStore, checker, scheduler.Options{
		SyncInterval:  cfg.Server.SyncInterval,
		AuditInterval: cfg.Server.AuditInterval,
		AlertChannel:  cfg.Slack.AlertChannel,
	}).WithNotifier(notifier)

	// Fiber 앱 생성 및 템플릿 설정
	app := fiber.New(fiber.Config{
		Views:       web.NewEngine(),
		JSONEncoder: sonic.Marshal,
		JSONDecoder: sonic.Unmarshal,
	})
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(middleware.RequestLogger())

	// 라우트(URL) 설정
	log.Info("라우트를 설정합니다...")

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/dashboard")
	})
	app.Get("/dashboard", dashboardHandler.HandleShowDashboard)
	app.Get("/schedules/:id/preview", scheduleHandler.HandleShowPreviewPage)

	api := app.Group("/api")
	{
		// [스케줄]
		api.Get("/schedules", scheduleHandler.HandleListSchedules)
		api.Post("/schedules", scheduleHandler.HandleCreateSchedule)
		api.Post("/schedules/preview", scheduleHandler.HandlePreviewDraft)
		api.Get("/schedules/:id", scheduleHandler.HandleGetSchedule)
		api.Patch("/schedules/:id", scheduleHandler.HandleUpdateSchedule)
		api.Delete("/schedules/:id", scheduleHandler.HandleDeleteSchedule)
		api.Get("/schedules/:id/preview", scheduleHandler.HandlePreview)
		api.Post("/schedules/:id/test-send", scheduleHandler.HandleTestSend)
		api.Get("/presets", scheduleHandler.HandleListPresets)

		// [채널]
		api.Get("/channels/search", middleware.SearchRateLimiter(cfg.Server.RateLimit, limiterStorage), channelHandler.HandleSearchChannels)
		api.Post("/channels/sync", channelHandler.HandleSyncChannels)
		api.Get("/channels/:channelId/bot-membership", membershipHandler.HandleCheck)

		// [멤버]
		api.Get("/members", memberHandler.HandleListMembers)
		api.Post("/members/link-identities", memberHandler.HandleLinkIdentities)

		api.Get("/dashboard", dashboardHandler.HandleGetDashboard)
		api.Get("/bot", slackbotHandler.HandleShowIdentity)
	}

	// 서버 시작 (우아한 종료 로직)

	// (스케줄러 시작)
	if err := jobs.Start(); err != nil {
		log.Fatalf("스케줄러 시작 실패: %v", err)
	}

	// (Fiber 앱 시작)
	go func() {
		log.Infof("WeeklyPulse 서버(HTTP)가 [::]:%s 포트에서 시작됩니다.", cfg.Server.Port)
		if err := app.Listen(fmt.Sprintf(":%s", cfg.Server.Port)); err != nil {
			log.Panicf("HTTP 서버 Listen 실패: %v", err)
		}
	}()

	// (종료 신호 대기)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	log.Info("WeeklyPulse 서버 종료 신호 수신...")

	jobs.Stop()

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Errorf("HTTP 서버 Shutdown 실패: %v", err)
	}
	if err := limiterStorage.Close(); err != nil {
		log.Warnf("레이트 리밋 스토어 종료 실패: %v", err)
	}
	if err := dbo.Close(); err != nil {
		log.Warnf("DB 연결 종료 실패: %v", err)
	}

	log.Info("WeeklyPulse 서버가 정상적으로 종료되었습니다.")
}

// loadSections는 -file이 있으면 로컬 YAML을, 없으면 Parameter Store를 읽습니다.
func loadSections(file, region, key string) (config.Sections, error) {
	if file != "" {
		return config.LoadFile(file)
	}
	remote, err := confloader.AWSParamLoader(region, key)
	if err != nil {
		return nil, err
	}
	sections := config.Sections{}
	for _, name := range configSections {
		sections[name] = remote.Keyload(name)
	}
	return sections, nil
}

func setupLogger(s config.ServerConfig) {
	if strings.EqualFold(s.LogFormat, "json") {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	level, err := log.ParseLevel(s.LogLevel)
	if err != nil {
		log.Warnf("알 수 없는 로그 레벨(%s), info로 설정합니다.", s.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
