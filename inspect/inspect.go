// Package inspect provides a text user interface for stepping a VM one
// instruction at a time and watching its registers, heap, and read-only
// area change.
package inspect

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/example/regvm/vm"
)

// Viewer is the text user interface driving a single VM.
type Viewer struct {
	VM  *vm.VM
	App *tview.Application

	MainLayout   *tview.Flex
	RegisterView *tview.TextView
	HeapView     *tview.TextView
	ReadOnlyView *tview.TextView
	OutputView   *tview.TextView
	StatusView   *tview.TextView

	halted bool
}

// NewViewer builds a Viewer over machine. The VM is expected to already
// have an image loaded (vm.LoadImage) and its PC positioned past the
// header, as Run would do.
func NewViewer(machine *vm.VM) *Viewer {
	v := &Viewer{
		VM:  machine,
		App: tview.NewApplication(),
	}
	v.initializeViews()
	v.buildLayout()
	v.setupKeyBindings()
	machine.Stdout = outputWriter{v: v}
	return v
}

func (v *Viewer) initializeViews() {
	v.RegisterView = tview.NewTextView().SetDynamicColors(true)
	v.RegisterView.SetBorder(true).SetTitle(" Registers ")

	v.HeapView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	v.HeapView.SetBorder(true).SetTitle(" Heap ")

	v.ReadOnlyView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	v.ReadOnlyView.SetBorder(true).SetTitle(" Read-only data ")

	v.OutputView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	v.OutputView.SetBorder(true).SetTitle(" Output ")

	v.StatusView = tview.NewTextView().SetDynamicColors(true)
	v.StatusView.SetBorder(true).SetTitle(" Status ")
}

func (v *Viewer) buildLayout() {
	top := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(v.RegisterView, 0, 1, false).
		AddItem(v.StatusView, 0, 1, false)

	middle := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(v.HeapView, 0, 1, false).
		AddItem(v.ReadOnlyView, 0, 1, false)

	v.MainLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(top, 8, 0, false).
		AddItem(middle, 0, 2, false).
		AddItem(v.OutputView, 0, 1, false)
}

func (v *Viewer) setupKeyBindings() {
	v.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Rune() {
		case 's':
			v.Step()
			return nil
		case 'q':
			v.App.Stop()
			return nil
		}
		return event
	})
}

// Step executes a single instruction and refreshes every view.
func (v *Viewer) Step() {
	if !v.halted {
		v.halted = v.VM.RunOnce()
	}
	v.RefreshAll()
}

// RefreshAll redraws every panel from current VM state.
func (v *Viewer) RefreshAll() {
	v.updateRegisterView()
	v.updateHeapView()
	v.updateReadOnlyView()
	v.updateStatusView()
}

func (v *Viewer) updateRegisterView() {
	regs := v.VM.Registers()
	var lines []string
	for row := 0; row < 8; row++ {
		var cols []string
		for col := 0; col < 4; col++ {
			i := row*4 + col
			cols = append(cols, fmt.Sprintf("R%-2d: %11d", i, regs[i]))
		}
		lines = append(lines, strings.Join(cols, "  "))
	}
	v.RegisterView.SetText(strings.Join(lines, "\n"))
}

func (v *Viewer) updateHeapView() {
	heap := v.VM.Mem.Heap()
	v.HeapView.SetText(hexDump(heap))
}

func (v *Viewer) updateReadOnlyView() {
	ro := v.VM.ReadOnly()
	v.ReadOnlyView.SetText(hexDump(ro))
}

func (v *Viewer) updateStatusView() {
	state := "running"
	if v.halted {
		state = "halted"
	}
	lines := []string{
		fmt.Sprintf("PC:     %d", v.VM.PC),
		fmt.Sprintf("Remain: %d", v.VM.CPU.Remainder),
		fmt.Sprintf("Equal:  %t", v.VM.CPU.Equal),
		fmt.Sprintf("State:  %s", state),
	}
	if v.VM.LastError != nil {
		lines = append(lines, fmt.Sprintf("Error:  %s", v.VM.LastError))
	}
	v.StatusView.SetText(strings.Join(lines, "\n"))
}

// WriteOutput appends text to the output panel, for PRTS writes routed
// here instead of to os.Stdout.
func (v *Viewer) WriteOutput(text string) {
	fmt.Fprint(v.OutputView, text)
}

// outputWriter adapts Viewer.WriteOutput to io.Writer so it can be
// installed as the VM's Stdout: a PRTS write lands in the output panel
// and triggers a redraw instead of scribbling over the TUI screen.
type outputWriter struct {
	v *Viewer
}

func (w outputWriter) Write(p []byte) (int, error) {
	w.v.WriteOutput(string(p))
	w.v.App.Draw()
	return len(p), nil
}

// Run starts the TUI event loop, blocking until the user quits.
func (v *Viewer) Run() error {
	v.RefreshAll()
	return v.App.SetRoot(v.MainLayout, true).SetFocus(v.MainLayout).Run()
}

// Stop ends the TUI event loop.
func (v *Viewer) Stop() {
	v.App.Stop()
}

func hexDump(b []byte) string {
	if len(b) == 0 {
		return "(empty)"
	}
	var sb strings.Builder
	for i := 0; i < len(b); i += 16 {
		end := i + 16
		if end > len(b) {
			end = len(b)
		}
		fmt.Fprintf(&sb, "%08x  ", i)
		for j := i; j < end; j++ {
			fmt.Fprintf(&sb, "%02x ", b[j])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
