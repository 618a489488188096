package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"surveybot/internal/api"
	"surveybot/internal/bot"
	"surveybot/internal/config"
	"surveybot/internal/logger"
	"surveybot/internal/metrics"
	"surveybot/internal/sink"
	"surveybot/internal/storage"
	"surveybot/internal/survey"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// loadEnv загружает переменные из .env файла, если он есть
func loadEnv(path string) {
	if err := godotenv.Load(path); err != nil {
		// Если файл .env не найден, используем переменные окружения системы
		fmt.Fprintf(os.Stderr, "Файл %s не найден, используем переменные окружения системы\n", path)
	}
}

// run собирает компоненты и работает до получения SIGINT/SIGTERM
func run(parent context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	log, logCloser, err := logger.New(logger.Options{
		Level:      cfg.Logging.Level,
		File:       cfg.Logging.File,
		MaxSize:    cfg.LogMaxSize(),
		MaxAge:     cfg.LogMaxAge(),
		MaxBackups: cfg.Logging.MaxBackup,
		Console:    cfg.Logging.Console,
	})
	if err != nil {
		return fmt.Errorf("ошибка настройки логирования: %w", err)
	}
	defer logCloser.Close()

	m := metrics.NewMetrics()

	store, err := storage.NewStorage(cfg.RecipientsFile(), cfg.FAQFile())
	if err != nil {
		return fmt.Errorf("ошибка инициализации хранилища: %w", err)
	}

	tb, err := bot.NewTelebot(cfg.Telegram.Token, cfg.Telegram.PollTimeout)
	if err != nil {
		return err
	}

	// Каналы доставки анкет. Без ключа подписки и сохранённых получателей
	// Telegram-канал доставлять некуда.
	var sinks sink.Multi
	var telegramSink *sink.Telegram
	if cfg.Telegram.AdminKey != "" || len(store.GetChatIDs()) > 0 {
		telegramSink = sink.NewTelegram(tb, store, cfg.Delivery.QueueSize, m, log)
		sinks = append(sinks, telegramSink)
	}

	var webhook *api.WebhookClient
	if wh := cfg.Delivery.Webhook; wh.URL != "" {
		webhook = api.NewWebhookClient(wh.URL, wh.Token, wh.Timeout, m, log)
		webhook.SetRetryPolicy(wh.RetryCount, wh.RetryWait, wh.MaxRetryElapsed)
		sinks = append(sinks, webhook)
	}

	var out survey.Sink = sinks
	if len(sinks) == 0 {
		out = sink.Discard{Log: log}
	}

	surveyBot := bot.NewBot(tb, store, out, m, log, bot.Options{
		SessionTimeout: cfg.Survey.SessionTimeout,
		MaxSessions:    cfg.Survey.MaxSessions,
		AdminKey:       cfg.Telegram.AdminKey,
		WhatsAppNumber: cfg.Delivery.WhatsAppNumber,
	})

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	// Очередь Telegram разбирается до остановки бота, поэтому у неё свой контекст
	sinkCtx, stopSink := context.WithCancel(context.Background())
	defer stopSink()
	if telegramSink != nil {
		g.Go(func() error {
			return telegramSink.Run(sinkCtx)
		})
	}

	// Периодическое сохранение данных
	g.Go(func() error {
		saveData(gctx, store, cfg.Storage.SaveInterval, log)
		return nil
	})

	surveyBot.Start()
	log.Info().
		Int("recipients", len(store.GetChatIDs())).
		Bool("telegram", telegramSink != nil).
		Bool("webhook", webhook != nil).
		Bool("whatsapp", cfg.Delivery.WhatsAppNumber != "").
		Msg("Бот запущен")

	<-gctx.Done()
	log.Info().Msg("Получен сигнал завершения, останавливаем работу...")
	// Сначала бот: после Stop обработчики больше не вызывают Deliver
	surveyBot.Stop()
	stopSink()

	groupErr := g.Wait()
	if groupErr != nil && !errors.Is(groupErr, context.Canceled) {
		log.Error().Err(groupErr).Msg("Ошибка фоновой задачи")
	}

	return shutdown(store, webhook, cfg.Survey.GracefulTimeout, log)
}

// saveData периодически сохраняет список получателей
func saveData(ctx context.Context, store *storage.Storage, interval time.Duration, log zerolog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := store.SaveData(); err != nil {
				log.Error().Err(err).Msg("Ошибка сохранения данных")
			}
		case <-ctx.Done():
			return
		}
	}
}

// shutdown сохраняет данные и дожидается незавершённых доставок не дольше timeout
func shutdown(store *storage.Storage, webhook *api.WebhookClient, timeout time.Duration, log zerolog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := store.SaveData(); err != nil {
		log.Error().Err(err).Msg("Ошибка сохранения данных при завершении")
	}

	if webhook != nil {
		if err := webhook.Wait(ctx); err != nil {
			log.Warn().Err(err).Msg("Превышено время graceful shutdown, доставка webhook прервана")
		}
		webhook.Close()
	}

	log.Info().Msg("Работа завершена")
	return nil
}
