package main

import (
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/MuhammadWasif/susi-linux/internal/audio"
	"github.com/MuhammadWasif/susi-linux/internal/capture"
	"github.com/MuhammadWasif/susi-linux/internal/config"
	"github.com/MuhammadWasif/susi-linux/internal/dispatch"
	"github.com/MuhammadWasif/susi-linux/internal/hotword"
	"github.com/MuhammadWasif/susi-linux/internal/ipc"
	"github.com/MuhammadWasif/susi-linux/internal/lights"
	"github.com/MuhammadWasif/susi-linux/internal/loop"
	"github.com/MuhammadWasif/susi-linux/internal/netcheck"
	"github.com/MuhammadWasif/susi-linux/internal/player"
	"github.com/MuhammadWasif/susi-linux/internal/proxy"
	"github.com/MuhammadWasif/susi-linux/internal/queue"
	"github.com/MuhammadWasif/susi-linux/internal/renderer"
	"github.com/MuhammadWasif/susi-linux/internal/scheduler"
	"github.com/MuhammadWasif/susi-linux/internal/stt"
	"github.com/MuhammadWasif/susi-linux/internal/tts"
	"github.com/MuhammadWasif/susi-linux/pkg/susi"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	configFile := cli.StringP("config", "c", "config.json", "Config file path")
	proxyAddr := cli.StringP("proxy", "p", "", "Socks proxy address (optional)")
	rendererURL := cli.StringP("renderer", "r", "", "Renderer websocket url (optional)")
	logLevel := cli.StringP("log", "l", "info", "Log level")
	cli.Parse()

	log.SetDefault(log.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: logLevelMap[*logLevel],
	})))

	log.Info("Booting up")

	godotenv.Load(*envFile)

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Error("Failed to load config", "path", *configFile, "err", err)
		os.Exit(1)
	}
	session := config.NewSession(cfg)

	httpClient := &http.Client{Timeout: 30 * time.Second}
	var openaiOpts []option.RequestOption
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		openaiOpts = append(openaiOpts, option.WithAPIKey(key))
	} else {
		log.Warn("OPENAI_API_KEY not set, cloud providers will fail")
	}
	if *proxyAddr != "" {
		httpClient, err = proxy.NewSocksClient(*proxyAddr)
		if err != nil {
			log.Error("Failed to dial socks proxy", "proxy", *proxyAddr, "err", err)
			os.Exit(1)
		}
		openaiOpts = append(openaiOpts, option.WithHTTPClient(httpClient))
	}
	api := openai.NewClient(openaiOpts...)

	rec := audio.NewRecorder()
	if err := rec.Init(); err != nil {
		log.Error("Failed to init audio", "err", err)
		os.Exit(1)
	}
	defer rec.Close()

	whisperEngine, err := stt.NewWhisper(cfg.WhisperModel)
	if err != nil {
		log.Error("Failed to init whisper", "model", cfg.WhisperModel, "err", err)
		os.Exit(1)
	}
	defer whisperEngine.Close()

	log.Debug("Loaded recorder and local model")

	client := susi.NewClient(httpClient)
	if loc, err := susi.LookupLocation(httpClient); err != nil {
		log.Error("Failed to resolve location", "err", err)
	} else {
		client.UpdateLocation(loc.Longitude, loc.Latitude, loc.CountryName, loc.CountryCode)
	}
	if cfg.UsageMode == "authenticated" && cfg.LoginCredentials != nil {
		if err := client.SignIn(cfg.LoginCredentials.Email, cfg.LoginCredentials.Password); err != nil {
			log.Error("Sign in failed, check login credentials in config.json", "err", err)
		}
	}
	go netcheck.WatchServer(client, httpClient, cfg.ServerURL)

	soft := audio.NewSoftVolume([]string{"susi-daemon", "mpv"}, 10)
	pl := player.NewLocal(soft)

	var li lights.Interface = lights.Logging{}
	var pins lights.Pins = lights.NoPins{}
	if gpio, err := lights.NewGPIO(); err != nil {
		log.Warn("GPIO lines unavailable, running without them", "err", err)
	} else {
		pins = gpio
	}

	var rd renderer.Interface = renderer.None{}
	var bus *renderer.Bus
	if *rendererURL != "" {
		bus, err = renderer.Dial(*rendererURL)
		if err != nil {
			log.Error("Failed to connect renderer", "url", *rendererURL, "err", err)
			os.Exit(1)
		}
		defer bus.Close()
		rd = bus
	}

	recognizer := stt.NewSelector(stt.NewCloud(api), whisperEngine, netcheck.Online)
	voice := tts.NewSelector(tts.NewCloud(api), tts.NewEspeak())

	// Concrete hotword engines run out of process and wake us through
	// the control socket.
	log.Info("Hotword engine", "engine", cfg.HotwordEngine)
	detector := hotword.NewSocketDetector()
	button := hotword.NewWakeButton()

	plans := scheduler.New()
	defer plans.Stop()

	q := queue.New()
	pipeline := capture.NewPipeline(rec, recognizer, detector, pl, li, pins, rd, cfg)
	dispatcher := dispatch.New(client, voice, plans, pl, li, pins, rd, cfg)
	errHandler := dispatch.NewErrorHandler(pl, li, rd, cfg)

	l := loop.New(q, pipeline, dispatcher, errHandler, pl, pins, session)
	l.AddTrigger(detector)
	if cfg.WakeButton == "enabled" {
		log.Info("Wake button enabled")
		l.AddTrigger(button)
	}
	plans.OnFire(l.EnqueueReply)

	if bus != nil {
		go bus.ReadLoop(l.EnqueueWake)
	}

	if err := ipc.StartServer(func(msg ipc.ControlMessage) {
		switch msg.Cmd {
		case "wake":
			detector.Wake()
		case "say":
			l.EnqueueSay(msg.Arg)
		default:
			log.Warn("Unknown command", "cmd", msg.Cmd)
		}
	}); err != nil {
		log.Error("Failed ipc server", "err", err)
		os.Exit(1)
	}

	log.Info("Boot up - successful")
	l.Run()
}
