// Package notifier sends desktop toasts through the focusboard tray app's
// local webhook.
package notifier

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/focusboard/internal/constants"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

// ErrTrayNotRunning is returned when no live tray process owns the lockfile.
var ErrTrayNotRunning = errors.New(constants.TrayExecutablePrefix + " is not running")

const secretHeader = "X-Focusboard-Secret"

type Notifier struct {
	client *http.Client
	title  string
}

type WebhookPayload struct {
	Title      string `json:"title,omitempty"`
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

// endpoint is the tray's advertised webhook, read from "port|pid|secret".
type endpoint struct {
	Port   int
	PID    int
	Secret string
}

func (e endpoint) url() string {
	return "http://127.0.0.1:" + strconv.Itoa(e.Port)
}

func New() *Notifier {
	return &Notifier{
		client: &http.Client{Timeout: 3 * time.Second},
		title:  "FocusBoard",
	}
}

func (n *Notifier) Notify(text string) error {
	ep, err := locateTray()
	if err != nil {
		return err
	}
	return n.send(ep, WebhookPayload{
		Title:      n.title,
		Text:       text,
		DurationMs: constants.NotificationDurationMs,
	})
}

// CheckTray reports whether a tray is reachable without sending anything.
func (n *Notifier) CheckTray() error {
	_, err := locateTray()
	return err
}

func locateTray() (endpoint, error) {
	dir, err := GetTrayAppConfigDir()
	if err != nil {
		return endpoint{}, err
	}
	return readLockfile(filepath.Join(dir, constants.NotifierLockfileName))
}

// GetTrayAppConfigDir returns the directory holding the tray's lockfile.
// The tray may relocate it with settings.lockfile_dir in its settings.json.
func GetTrayAppConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	trayConfigDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	data, err := os.ReadFile(filepath.Join(trayConfigDir, "settings.json"))
	if err != nil {
		return trayConfigDir, nil
	}
	var store struct {
		Settings struct {
			LockfileDir string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if err := json.Unmarshal(data, &store); err == nil && store.Settings.LockfileDir != "" {
		return store.Settings.LockfileDir, nil
	}
	return trayConfigDir, nil
}

func readLockfile(path string) (endpoint, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return endpoint{}, ErrTrayNotRunning
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return endpoint{}, errors.New("lockfile is malformed")
	}

	var ep endpoint
	if strings.TrimSpace(parts[0]) == "" {
		return endpoint{}, errors.New("port in lockfile is empty")
	}
	if ep.Port, err = strconv.Atoi(parts[0]); err != nil {
		return endpoint{}, errors.New("invalid port number in lockfile")
	}
	if ep.Port < 1 || ep.Port > 65535 {
		return endpoint{}, fmt.Errorf("port number %d is outside valid range (1-65535)", ep.Port)
	}
	if ep.PID, err = strconv.Atoi(parts[1]); err != nil {
		return endpoint{}, errors.New("invalid process ID in lockfile")
	}
	ep.Secret = parts[2]
	if strings.TrimSpace(ep.Secret) == "" {
		return endpoint{}, errors.New("secret in lockfile is empty")
	}

	process, err := findProcessFunc(ep.PID)
	if err != nil || process == nil {
		return endpoint{}, ErrTrayNotRunning
	}
	if !strings.HasPrefix(process.Executable(), constants.TrayExecutablePrefix) {
		return endpoint{}, fmt.Errorf("process with PID %d is not %s (is %s)", ep.PID, constants.TrayExecutablePrefix, process.Executable())
	}
	return ep, nil
}

func (n *Notifier) send(ep endpoint, payload WebhookPayload) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, ep.url(), bytes.NewReader(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(secretHeader, ep.Secret)

	res, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach tray: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
}
