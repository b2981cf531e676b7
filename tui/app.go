// Package tui wires the uiadapter data model into a rivo/tview widget tree:
// a scrollable record table, a live filter input box, a key/value detail
// pane for the selected row, and a status bar. It implements the key
// bindings listed for completeness in §6 of the browser's external
// interfaces (Ctrl+Q quit, Ctrl+F focus the filter box, Tab cycle focus,
// arrows/PageUp/PageDown navigate, C copy the selected cell, F add a
// key = value clause to the current filter).
package tui

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/tuplecats/logscope/uiadapter"
)

// refreshInterval is how often the table redraws to pick up rows appended
// by the collection's background workers.
const refreshInterval = 200 * time.Millisecond

// App owns the widget tree and the uiadapter.Model it renders.
type App struct {
	app    *tview.Application
	pages  *tview.Pages
	model  uiadapter.Model

	table      *tview.Table
	filterBox  *tview.InputField
	detailView *tview.TextView
	statusBar  *tview.TextView

	focusableItems []tview.Primitive
	currentFocus   int
	filterHasError bool

	lastRows int
	stopCh   chan struct{}
}

// New builds the widget tree over model. initialFilter, if non-empty, is
// applied once at startup (used to seed a saved preset from the config
// file).
func New(model uiadapter.Model, initialFilter string) *App {
	a := &App{
		app:    tview.NewApplication(),
		pages:  tview.NewPages(),
		model:  model,
		stopCh: make(chan struct{}),
	}
	a.setupUI()
	if initialFilter != "" {
		if err := a.model.SetFilter(initialFilter); err != nil {
			a.showFilterError(err)
		} else {
			a.filterBox.SetText(initialFilter)
		}
	}
	return a
}

func (a *App) setupUI() {
	a.table = tview.NewTable().
		SetSelectable(true, false).
		SetFixed(1, 0)
	a.table.SetBorder(true).SetTitle(" Records ")
	a.table.SetSelectionChangedFunc(func(row, col int) {
		a.updateDetailView(row)
	})

	a.filterBox = tview.NewInputField().
		SetLabel("filter: ").
		SetFieldWidth(0)
	a.filterBox.SetBorder(true).SetTitle(" Filter ")
	a.filterBox.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		text := a.filterBox.GetText()
		if err := a.model.SetFilter(text); err != nil {
			a.showFilterError(err)
			return
		}
		a.clearFilterError()
		a.setFocus(0)
	})

	a.detailView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	a.detailView.SetBorder(true).SetTitle(" Detail ")

	a.statusBar = tview.NewTextView().
		SetDynamicColors(true).
		SetText("[yellow]Ctrl+Q[white] quit  [yellow]Ctrl+F[white] filter  [yellow]Tab[white] focus  [yellow]F[white] add clause  [yellow]C[white] copy")
	a.statusBar.SetBorder(false)

	a.focusableItems = []tview.Primitive{a.table, a.filterBox, a.detailView}
	a.currentFocus = 0

	body := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(a.table, 0, 3, true).
		AddItem(a.detailView, 0, 2, false)

	main := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(body, 0, 1, true).
		AddItem(a.filterBox, 3, 0, false).
		AddItem(a.statusBar, 1, 0, false)

	a.pages.AddPage("main", main, true, true)

	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlQ:
			a.app.Stop()
			return nil
		case tcell.KeyCtrlF:
			a.setFocus(1)
			return nil
		case tcell.KeyTab:
			a.nextFocus()
			return nil
		case tcell.KeyBacktab:
			a.prevFocus()
			return nil
		}
		if a.getFocusedItem() == a.filterBox {
			return event
		}
		switch event.Rune() {
		case 'c', 'C':
			a.copySelectedCell()
			return nil
		case 'f', 'F':
			a.addSelectedClause()
			return nil
		}
		return event
	})

	a.app.SetRoot(a.pages, true)
	a.updateFocusBorders()
}

// Run starts the table refresh loop and hands control to tview's event
// loop. It returns when the user quits (Ctrl+Q) or the application is
// stopped from elsewhere.
func (a *App) Run() error {
	go a.refreshLoop()
	defer close(a.stopCh)
	return a.app.Run()
}

// refreshLoop redraws the table whenever the model's row count changes,
// picking up records the collection's background workers append or drop
// as the active filter settles.
func (a *App) refreshLoop() {
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-a.stopCh:
			return
		case <-ticker.C:
			rows := a.model.Rows()
			if rows == a.lastRows {
				continue
			}
			a.lastRows = rows
			a.app.QueueUpdateDraw(func() {
				a.populateTable()
			})
		}
	}
}

func (a *App) populateTable() {
	for col := 0; col < a.model.Cols(); col++ {
		name, _ := a.model.Header(col)
		cell := tview.NewTableCell(name).
			SetSelectable(false).
			SetTextColor(tcell.ColorYellow)
		a.table.SetCell(0, col, cell)
	}
	rows := a.model.Rows()
	for row := 0; row < rows; row++ {
		for col := 0; col < a.model.Cols(); col++ {
			v, ok := a.model.Data(row, col)
			text := ""
			if ok {
				text = v.String()
			}
			a.table.SetCell(row+1, col, tview.NewTableCell(text))
		}
	}
	for r := a.table.GetRowCount() - 1; r > rows; r-- {
		a.table.RemoveRow(r)
	}
}

func (a *App) updateDetailView(row int) {
	tableRow := row - 1
	rec, ok := a.model.Line(tableRow)
	if !ok {
		a.detailView.SetText("")
		return
	}
	fields, err := rec.Fields()
	if err != nil {
		a.detailView.SetText(fmt.Sprintf("[red]error reading record: %v[white]", err))
		return
	}
	text := fmt.Sprintf("[yellow]path:[white] %s\n[yellow]time:[white] %s\n\n", rec.Path(), rec.Time().Format("2006-01-02 15:04:05.000"))
	for _, p := range fields.Pairs() {
		text += fmt.Sprintf("[yellow]%s:[white] %s\n", p.Key, p.Value.String())
	}
	a.detailView.SetText(text)
}

func (a *App) showFilterError(err error) {
	a.filterHasError = true
	a.filterBox.SetBorderColor(tcell.ColorRed).SetTitle(fmt.Sprintf(" Filter: %v ", err))
}

func (a *App) clearFilterError() {
	a.filterHasError = false
	a.filterBox.SetBorderColor(tcell.ColorDefault).SetTitle(" Filter ")
}

// copySelectedCell surfaces the selected cell's value on the status bar.
// No OS clipboard library is part of this dependency set, so "copy" means
// making the value available to read and select from the terminal rather
// than placing it on a system clipboard.
func (a *App) copySelectedCell() {
	row, col := a.table.GetSelection()
	v, ok := a.model.Data(row-1, col)
	if !ok {
		return
	}
	a.statusBar.SetText(fmt.Sprintf("[green]value:[white] %s", v.String()))
}

func (a *App) addSelectedClause() {
	row, col := a.table.GetSelection()
	name, ok := a.model.Header(col)
	if !ok {
		return
	}
	v, ok := a.model.Data(row-1, col)
	if !ok {
		return
	}
	next := appendClause(a.filterBox.GetText(), name, v)
	if err := a.model.SetFilter(next); err != nil {
		a.showFilterError(err)
		return
	}
	a.filterBox.SetText(next)
	a.clearFilterError()
}

func (a *App) nextFocus() {
	a.currentFocus = (a.currentFocus + 1) % len(a.focusableItems)
	a.setFocus(a.currentFocus)
}

func (a *App) prevFocus() {
	a.currentFocus = (a.currentFocus - 1 + len(a.focusableItems)) % len(a.focusableItems)
	a.setFocus(a.currentFocus)
}

func (a *App) setFocus(i int) {
	a.currentFocus = i
	a.app.SetFocus(a.focusableItems[i])
	a.updateFocusBorders()
}

func (a *App) getFocusedItem() tview.Primitive {
	if a.currentFocus >= 0 && a.currentFocus < len(a.focusableItems) {
		return a.focusableItems[a.currentFocus]
	}
	return nil
}

func (a *App) updateFocusBorders() {
	titles := []string{" Records ", " Filter ", " Detail "}
	for i, item := range a.focusableItems {
		color := tcell.ColorDefault
		if i == a.currentFocus {
			color = tcell.ColorYellow
		}
		switch p := item.(type) {
		case *tview.Table:
			p.SetBorderColor(color).SetTitle(titles[i])
		case *tview.InputField:
			// A pending ParseError owns the filter box's title and red
			// border until the next successful SetFilter; don't clobber it.
			if !a.filterHasError {
				p.SetBorderColor(color).SetTitle(titles[i])
			}
		case *tview.TextView:
			p.SetBorderColor(color).SetTitle(titles[i])
		}
	}
}
