package cli

import (
	"fmt"
	"log"
	"time"

	"github.com/Gaikarak/AstroVision-Andromator/pkg/agent"
	"github.com/Gaikarak/AstroVision-Andromator/pkg/config"
	"github.com/Gaikarak/AstroVision-Andromator/pkg/device"
	"github.com/Gaikarak/AstroVision-Andromator/pkg/logger"
	"github.com/Gaikarak/AstroVision-Andromator/pkg/stats"
	"github.com/Gaikarak/AstroVision-Andromator/pkg/uiautomator2"
	"github.com/Gaikarak/AstroVision-Andromator/pkg/vision"
)

// connectTimeout bounds the wait for the on-device automation server.
const connectTimeout = 30 * time.Second

// session bundles everything needed to execute tests on one device.
type session struct {
	Agent      *agent.Agent
	Device     *device.AndroidDevice
	Controller *device.Controller
	Stats      *stats.Tracker
}

// Close tears down the automation session and server.
func (s *session) Close() {
	if s.Controller != nil {
		s.Controller.Close()
	}
	if s.Device != nil {
		s.Device.StopUIAutomator2()
	}
}

// newSession connects the device, starts UIAutomator2 and wires up the agent.
func newSession(cfg *config.Config) (*session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dev, err := device.New(cfg.Device.Serial)
	if err != nil {
		return nil, err
	}
	logger.Info("using device %s", dev.Serial())

	localPort := cfg.Device.LocalPort
	if localPort == 0 {
		localPort = device.DefaultDevicePort
	}
	if err := dev.StartUIAutomator2(localPort, connectTimeout); err != nil {
		return nil, fmt.Errorf("start UIAutomator2: %w", err)
	}

	client := uiautomator2.NewClient(localPort)
	client.SetLogger(log.New(logger.GetWriter(), "", log.Ltime|log.Lmicroseconds))

	ctrl := device.NewController(client)
	if err := ctrl.Connect(connectTimeout); err != nil {
		dev.StopUIAutomator2()
		return nil, err
	}

	tracker := stats.NewTracker()

	vc := vision.NewClient(cfg.Vision.APIKey)
	if cfg.Vision.BaseURL != "" {
		vc.SetBaseURL(cfg.Vision.BaseURL)
	}
	vc.SetRecorder(tracker)

	a := agent.New(ctrl, vc, tracker, agent.Config{
		Intelligent:       cfg.Intelligent(),
		MaxLocateAttempts: cfg.Agent.MaxLocateAttempts,
		StepPause:         time.Duration(cfg.Agent.StepPauseMs) * time.Millisecond,
		SettleDelay:       time.Duration(cfg.Agent.SettleMs) * time.Millisecond,
	})

	return &session{
		Agent:      a,
		Device:     dev,
		Controller: ctrl,
		Stats:      tracker,
	}, nil
}
