package browser

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
	log "github.com/sirupsen/logrus"
)

const (
	ViewportWidth  = 1280
	ViewportHeight = 800

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	navigationTimeout = 30 * time.Second
	settleDelay       = 3 * time.Second
	actionDelay       = 500 * time.Millisecond
)

// Launcher owns the playwright driver process. Create one per process and
// open a fresh isolated Session per site visit.
type Launcher struct {
	pw *playwright.Playwright
}

func NewLauncher() (*Launcher, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}
	return &Launcher{pw: pw}, nil
}

func (l *Launcher) Close() error {
	return l.pw.Stop()
}

// Session is one isolated headless-chromium page with a fixed viewport and a
// desktop user agent.
type Session struct {
	browser playwright.Browser
	page    playwright.Page
}

func (l *Launcher) OpenSession() (*Session, error) {

	chromium, err := l.pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
		Args: []string{
			"--no-sandbox",
			"--disable-setuid-sandbox",
			"--disable-dev-shm-usage",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to launch chromium: %w", err)
	}

	context, err := chromium.NewContext(playwright.BrowserNewContextOptions{
		Viewport:  &playwright.Size{Width: ViewportWidth, Height: ViewportHeight},
		UserAgent: playwright.String(userAgent),
	})
	if err != nil {
		_ = chromium.Close()
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		_ = chromium.Close()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	return &Session{browser: chromium, page: page}, nil
}

// Navigate loads the URL and waits a fixed settle delay for dynamic content.
func (s *Session) Navigate(url string) error {

	_, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(navigationTimeout.Milliseconds())),
	})
	if err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}

	time.Sleep(settleDelay)
	return nil
}

func (s *Session) Screenshot() ([]byte, error) {
	return s.page.Screenshot()
}

// Perform executes one model-requested action and returns a textual result
// for the next model turn. Failures degrade to descriptive strings; they
// never abort the extraction loop.
func (s *Session) Perform(input map[string]any) string {

	action, err := ParseAction(input)
	if err != nil {
		return err.Error()
	}

	result, err := s.execute(action)
	if err != nil {
		return fmt.Sprintf("Error executing %v: %v", action.Type, err)
	}
	return result
}

func (s *Session) execute(action Action) (string, error) {

	mouse := s.page.Mouse()
	keyboard := s.page.Keyboard()

	switch action.Type {
	case Screenshot:
		// The caller screenshots after every action anyway.
		return "Screenshot taken", nil

	case MouseMove:
		if err := mouse.Move(float64(action.X), float64(action.Y)); err != nil {
			return "", err
		}
		return fmt.Sprintf("Moved mouse to (%d, %d)", action.X, action.Y), nil

	case LeftClick:
		if err := mouse.Click(float64(action.X), float64(action.Y)); err != nil {
			return "", err
		}
		time.Sleep(actionDelay)
		return fmt.Sprintf("Clicked at (%d, %d)", action.X, action.Y), nil

	case LeftClickDrag:
		if err := mouse.Move(float64(action.StartX), float64(action.StartY)); err != nil {
			return "", err
		}
		if err := mouse.Down(); err != nil {
			return "", err
		}
		if err := mouse.Move(float64(action.X), float64(action.Y)); err != nil {
			return "", err
		}
		if err := mouse.Up(); err != nil {
			return "", err
		}
		return fmt.Sprintf("Dragged from (%d, %d) to (%d, %d)", action.StartX, action.StartY, action.X, action.Y), nil

	case RightClick:
		err := mouse.Click(float64(action.X), float64(action.Y), playwright.MouseClickOptions{
			Button: playwright.MouseButtonRight,
		})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Right-clicked at (%d, %d)", action.X, action.Y), nil

	case DoubleClick:
		if err := mouse.Dblclick(float64(action.X), float64(action.Y)); err != nil {
			return "", err
		}
		return fmt.Sprintf("Double-clicked at (%d, %d)", action.X, action.Y), nil

	case Scroll:
		if err := mouse.Move(float64(action.X), float64(action.Y)); err != nil {
			return "", err
		}
		scrollAmount := float64(action.Amount * 100)
		if action.Direction == "up" {
			scrollAmount = -scrollAmount
		}
		if err := mouse.Wheel(0, scrollAmount); err != nil {
			return "", err
		}
		time.Sleep(actionDelay)
		return fmt.Sprintf("Scrolled %v by %d units", action.Direction, action.Amount), nil

	case TypeText:
		if err := keyboard.Type(action.Text); err != nil {
			return "", err
		}
		preview := action.Text
		if len(preview) > 50 {
			preview = preview[:50]
		}
		return fmt.Sprintf("Typed: %v...", preview), nil

	case PressKey:
		if err := keyboard.Press(action.Key); err != nil {
			return "", err
		}
		return fmt.Sprintf("Pressed key: %v", action.Key), nil

	default:
		return "", fmt.Errorf("unhandled action %v", action.Type)
	}
}

// Close releases the whole browser. Safe to call on every exit path.
func (s *Session) Close() {
	if err := s.browser.Close(); err != nil {
		log.Errorf("failed to close browser: %v", err)
	}
}
