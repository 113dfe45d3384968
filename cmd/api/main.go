package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	httpadp "lendmarket-engine/internal/adapter/http"
	"lendmarket-engine/internal/adapter/middleware"
	"lendmarket-engine/internal/adapter/repository/mysql"
	"lendmarket-engine/internal/config"
	ledgerDomain "lendmarket-engine/internal/domain/ledger"
	loanDomain "lendmarket-engine/internal/domain/loan"
	"lendmarket-engine/internal/infrastructure/cache"
	"lendmarket-engine/internal/infrastructure/db"
	fundinguc "lendmarket-engine/internal/usecase/funding"
	loanuc "lendmarket-engine/internal/usecase/loan"
	repaymentuc "lendmarket-engine/internal/usecase/repayment"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatal(err)
	}
	if err := gdb.AutoMigrate(&loanDomain.Loan{}, &ledgerDomain.Entry{}); err != nil {
		log.Fatal(err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatal(err)
	}

	loanRepo := mysql.NewLoanRepository(gdb)
	ledgerRepo := mysql.NewLedgerRepository(gdb)
	uow := mysql.NewGormUoW(gdb)

	loans := loanuc.NewUsecase(loanRepo, ledgerRepo, uow)
	funding := fundinguc.NewUsecase(uow)
	repayment := repaymentuc.NewUsecase(uow)

	h := httpadp.NewHandler()
	lh := httpadp.NewLoanHandler(loans)
	th := httpadp.NewTransactionHandler(funding, repayment)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	idemp := middleware.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second)

	e.GET("/health", h.Health)
	e.GET("/loans", lh.ListAvailable)
	e.GET("/loans/:loan_id", lh.GetLoan)
	e.GET("/loans/:loan_id/ledger", lh.GetLedger)
	e.GET("/my/loans", lh.ListMine)
	e.POST("/loans", lh.CreateLoan, idemp)
	e.POST("/loans/:loan_id/fund", th.FundLoan, idemp)
	e.POST("/loans/:loan_id/repay", th.RepayLoan, idemp)

	if cfg.SweepIntervalSecs > 0 {
		go runDefaultSweep(loans, time.Duration(cfg.SweepIntervalSecs)*time.Second)
	}

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

func runDefaultSweep(loans *loanuc.Usecase, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for range t.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		n, err := loans.SweepDefaults(ctx)
		cancel()
		if err != nil {
			log.Printf("default sweep: %v", err)
			continue
		}
		if n > 0 {
			log.Printf("default sweep: promoted %d loan(s)", n)
		}
	}
}
