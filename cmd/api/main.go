package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	httpadp "carelink-backend/internal/adapter/http"
	appmw "carelink-backend/internal/adapter/middleware"
	"carelink-backend/internal/adapter/repository/mysql"
	"carelink-backend/internal/auth"
	"carelink-backend/internal/config"
	bulletindom "carelink-backend/internal/domain/bulletin"
	casedom "carelink-backend/internal/domain/caseapp"
	leavedom "carelink-backend/internal/domain/leave"
	refusaldom "carelink-backend/internal/domain/refusal"
	"carelink-backend/internal/domain/staff"
	"carelink-backend/internal/domain/table"
	whisperdom "carelink-backend/internal/domain/whisper"
	"carelink-backend/internal/imagestore"
	"carelink-backend/internal/infrastructure/cache"
	"carelink-backend/internal/infrastructure/db"
	"carelink-backend/internal/notify"
	"carelink-backend/internal/usecase/bulletin"
	"carelink-backend/internal/usecase/caseapp"
	"carelink-backend/internal/usecase/leave"
	"carelink-backend/internal/usecase/refusal"
	"carelink-backend/internal/usecase/user"
	"carelink-backend/internal/usecase/whisper"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatal(err)
	}
	store := mysql.NewRowStore(gdb)
	if err := store.Migrate(); err != nil {
		log.Fatal(err)
	}
	if err := seedHeaders(context.Background(), store); err != nil {
		log.Fatal(err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatal(err)
	}

	dispatcher := notify.NewDispatcher(cfg.NotifyBaseURL, cfg.NotifyToken)
	if !dispatcher.Enabled() {
		log.Println("notify: no channel token, delivery disabled")
	}

	var verifier auth.Verifier
	if cfg.VerifyURL != "" {
		verifier = auth.NewHTTPVerifier(cfg.VerifyURL)
	} else {
		log.Println("auth: no verify URL, id tokens are not checked")
	}

	var uploader imagestore.Uploader
	if cfg.UploadURL != "" {
		uploader = imagestore.NewHTTPUploader(cfg.UploadURL)
	}

	dir := staff.NewDirectory(store)

	userUC := user.NewUsecase(dir)
	leaveUC := leave.NewUsecase(store, dir, dispatcher, uploader)
	caseUC := caseapp.NewUsecase(store, dir, dispatcher)
	whisperUC := whisper.NewUsecase(store, dir, dispatcher)
	bulletinUC := bulletin.NewUsecase(store)
	refusalUC := refusal.NewUsecase(store)

	guard := httpadp.NewIdentityGuard(verifier, cfg.ChannelID, dir)

	h := httpadp.NewHandler()
	userH := httpadp.NewUserHandler(userUC, guard)
	leaveH := httpadp.NewLeaveHandler(leaveUC, guard)
	caseH := httpadp.NewCaseHandler(caseUC, guard)
	whisperH := httpadp.NewWhisperHandler(whisperUC, guard)
	bulletinH := httpadp.NewBulletinHandler(bulletinUC, guard)
	refusalH := httpadp.NewRefusalHandler(refusalUC)
	webhookH := httpadp.NewWebhookHandler(leaveUC, dispatcher, cfg.AppLink)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Logger(), middleware.Recover())

	idemp := appmw.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second)

	// routes
	e.GET("/health", h.Health)
	e.POST("/webhook", webhookH.Handle)

	api := e.Group("/api")
	api.POST("/check-user", userH.CheckUser)
	api.POST("/bind-user", userH.BindUser)

	api.POST("/submit-leave", leaveH.Submit, idemp)
	api.POST("/get-leaves", leaveH.List)
	api.POST("/review-leave", leaveH.Review)
	api.POST("/cancel-leave", leaveH.Cancel)

	api.POST("/submit-case", caseH.Submit, idemp)
	api.POST("/get-cases", caseH.List)
	api.POST("/review-case", caseH.Review)
	api.POST("/revoke-case", caseH.Revoke)
	api.POST("/get-case-ranking", caseH.Ranking)

	api.POST("/whisper/recipients", whisperH.Recipients)
	api.POST("/whisper/submit", whisperH.Submit, idemp)
	api.POST("/whisper/get", whisperH.List)
	api.POST("/whisper/reply", whisperH.Reply)
	api.POST("/whisper/read", whisperH.MarkRead)
	api.POST("/whisper/delete", whisperH.Delete)

	api.POST("/bulletin/get", bulletinH.List)
	api.POST("/bulletin/create", bulletinH.Create)
	api.POST("/bulletin/delete", bulletinH.Delete)
	api.POST("/bulletin/sign", bulletinH.Sign)
	api.POST("/bulletin/stats", bulletinH.SignStats)

	api.POST("/submit-refusal", refusalH.Submit, idemp)
	api.POST("/get-refusal-stats", refusalH.Stats)

	go remindPendingCases(caseUC)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// seedHeaders writes each sheet's header row on a fresh store. The sheets
// are app-owned, so without this the first submission would land in the
// header slot and stay invisible to every read path.
func seedHeaders(ctx context.Context, store table.Store) error {
	for sheet, header := range map[string][]string{
		staff.Sheet:           staff.Header,
		leavedom.Sheet:        leavedom.Header,
		casedom.Sheet:         casedom.Header,
		whisperdom.Sheet:      whisperdom.Header,
		bulletindom.Sheet:     bulletindom.Header,
		bulletindom.SignSheet: bulletindom.SignHeader,
		refusaldom.Sheet:      refusaldom.Header,
	} {
		if err := table.EnsureHeader(ctx, store, sheet, header); err != nil {
			return err
		}
	}
	return nil
}

// remindPendingCases runs the daily sweep that nags reviewers about intake
// applications sitting in Pending too long.
func remindPendingCases(uc *caseapp.Usecase) {
	t := time.NewTicker(24 * time.Hour)
	defer t.Stop()
	for now := range t.C {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		uc.SendPendingReminders(ctx, now.UTC())
		cancel()
	}
}
