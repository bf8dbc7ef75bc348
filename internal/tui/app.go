// Package tui hosts the chat widget in a terminal: a tview input field,
// a Send button and a scrolling chat view.
package tui

import (
	"context"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog"

	"chat-widget/internal/models"
	"chat-widget/internal/widget"
)

type App struct {
	app   *tview.Application
	input *tview.InputField
	send  *tview.Button
	chat  *tview.TextView
	ctrl  *widget.Controller
	ctx   context.Context

	stopped  chan struct{}
	stopOnce sync.Once
}

// New builds the terminal widget. Replies are fetched with fetcher and
// failures are logged to log, which must not write to the terminal.
func New(fetcher widget.ReplyFetcher, log zerolog.Logger) *App {
	a := &App{app: tview.NewApplication()}
	a.build(fetcher, log, widget.DispatchFunc(a.queueUpdate))
	return a
}

func (a *App) build(fetcher widget.ReplyFetcher, log zerolog.Logger, ui widget.Dispatcher) {
	a.ctx = context.Background()
	a.stopped = make(chan struct{})

	a.input = tview.NewInputField().
		SetLabel("> ").
		SetPlaceholder("Type a message and press Enter").
		SetDoneFunc(a.onInputDone)
	a.input.SetBorder(true).SetTitle(" " + widget.InputID + " ")

	a.send = tview.NewButton("Send").SetSelectedFunc(a.onSend)

	a.chat = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	a.chat.SetBorder(true).SetTitle(" " + widget.ChatBoxID + " ")

	a.ctrl = widget.NewController(
		fieldInput{a.input},
		&chatView{view: a.chat},
		fetcher,
		widget.WithDispatcher(ui),
		widget.WithLogger(log),
	)

	controls := tview.NewFlex().
		AddItem(a.input, 0, 1, true).
		AddItem(a.send, 10, 0, false)

	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.chat, 0, 1, false).
		AddItem(controls, 3, 0, true)

	a.app.SetRoot(root, true).SetFocus(a.input)
	a.app.SetInputCapture(a.captureTab)
}

// Run blocks until the user quits (Ctrl+C) or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	defer a.markStopped()
	if ctx.Err() != nil {
		return nil
	}
	a.ctx = ctx

	go func() {
		select {
		case <-ctx.Done():
			a.markStopped()
			a.app.Stop()
		case <-a.stopped:
		}
	}()

	if err := a.app.Run(); err != nil {
		return fmt.Errorf("terminal widget failed: %w", err)
	}
	return nil
}

// queueUpdate posts f to the event loop. Once the app has stopped nothing
// drains the queue, so f is dropped instead of blocking the caller.
func (a *App) queueUpdate(f func()) {
	select {
	case <-a.stopped:
		return
	default:
	}

	queued := make(chan struct{})
	go func() {
		a.app.QueueUpdateDraw(f)
		close(queued)
	}()

	select {
	case <-queued:
	case <-a.stopped:
	}
}

func (a *App) markStopped() {
	a.stopOnce.Do(func() { close(a.stopped) })
}

func (a *App) onInputDone(key tcell.Key) {
	a.ctrl.HandleKey(a.ctx, keyName(key))
}

func (a *App) onSend() {
	a.ctrl.SendMessage(a.ctx)
	a.app.SetFocus(a.input)
}

// captureTab moves focus between the input field and the Send button.
func (a *App) captureTab(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() != tcell.KeyTab && event.Key() != tcell.KeyBacktab {
		return event
	}
	if a.input.HasFocus() {
		a.app.SetFocus(a.send)
	} else {
		a.app.SetFocus(a.input)
	}
	return nil
}

func keyName(key tcell.Key) string {
	switch key {
	case tcell.KeyEnter:
		return widget.EnterKey
	case tcell.KeyEscape:
		return "Escape"
	case tcell.KeyTab:
		return "Tab"
	case tcell.KeyBacktab:
		return "Backtab"
	}
	if name, ok := tcell.KeyNames[key]; ok {
		return name
	}
	return fmt.Sprintf("Key[%d]", key)
}

type fieldInput struct {
	field *tview.InputField
}

func (f fieldInput) Value() string     { return f.field.GetText() }
func (f fieldInput) SetValue(v string) { f.field.SetText(v) }

// chatView renders bubbles into a TextView with colour tags.
type chatView struct {
	view  *tview.TextView
	count int
}

func (c *chatView) Append(b models.Bubble) {
	if c.count > 0 {
		fmt.Fprint(c.view, "\n\n")
	}
	fmt.Fprint(c.view, FormatBubble(b))
	c.count++
}

func (c *chatView) ScrollToBottom() {
	c.view.ScrollToEnd()
}

// FormatBubble renders b with tview colour tags. The text is escaped so
// it cannot carry tags of its own.
func FormatBubble(b models.Bubble) string {
	color := "green"
	if b.Kind == models.UserBubble {
		color = "yellow"
	}
	return fmt.Sprintf("[%s::b]%s[-::-] %s", color, tview.Escape(b.Sender), tview.Escape(b.Text))
}
