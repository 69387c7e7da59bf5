// Package review provides an interactive terminal browser for the
// master jobs feed, with a category filter and a per-job detail view.
package review

import (
	"fmt"
	"os/exec"
	"runtime"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jobbermed/medharvest/internal/model"
)

// Lines per job item in the list view (title + subtitle + blank separator).
const jobItemHeight = 3

type viewState int

const (
	viewList viewState = iota
	viewDetail
)

var (
	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Foreground(lipgloss.Color("39"))

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	jobTitleStyle = lipgloss.NewStyle().
			Bold(true)

	jobSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))

	selectedJobTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("24"))

	selectedJobSubtitleStyle = lipgloss.NewStyle().
					Foreground(lipgloss.Color("252")).
					Background(lipgloss.Color("24"))

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Width(16)

	detailValueStyle = lipgloss.NewStyle()

	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				MarginBottom(1)

	sectionDividerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	sectionBodyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252"))
)

type reviewModel struct {
	allJobs []model.CanonicalJob

	categories    []string // "" means no filter
	categoryIndex int
	visible       []model.CanonicalJob

	listViewport viewport.Model
	cursor       int
	width        int
	height       int
	ready        bool

	view           viewState
	detailJob      model.CanonicalJob
	detailViewport viewport.Model
}

func (m reviewModel) Init() tea.Cmd {
	return nil
}

func (m reviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		if m.view == viewDetail {
			m.detailViewport.Width = m.width - 4
			m.detailViewport.Height = m.height - 4
			m.detailViewport.SetContent(m.renderDetail())
		}
		return m, nil

	case tea.KeyMsg:
		if m.view == viewDetail {
			return m.updateDetailView(msg)
		}
		return m.updateListView(msg)
	}

	return m, nil
}

func (m reviewModel) updateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "tab", "right":
		m.cycleCategory(1)
		return m, nil
	case "shift+tab", "left":
		m.cycleCategory(-1)
		return m, nil
	case "up", "k":
		m.moveCursor(-1)
		return m, nil
	case "down", "j":
		m.moveCursor(1)
		return m, nil
	case "enter":
		return m.openDetailView()
	}

	// Forward other keys (pgup/pgdn/home/end) to the viewport.
	var cmd tea.Cmd
	m.listViewport, cmd = m.listViewport.Update(msg)
	return m, cmd
}

func (m reviewModel) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "backspace":
		m.view = viewList
		return m, nil
	case "o":
		if m.detailJob.ApplyURL != "" {
			openURL(m.detailJob.ApplyURL)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

func (m *reviewModel) cycleCategory(delta int) {
	n := len(m.categories)
	if n == 0 {
		return
	}
	m.categoryIndex = ((m.categoryIndex+delta)%n + n) % n
	m.applyFilter()
	m.cursor = 0
	m.recalcContent()
	m.listViewport.SetYOffset(0)
}

func (m *reviewModel) applyFilter() {
	cat := m.categories[m.categoryIndex]
	if cat == "" {
		m.visible = m.allJobs
		return
	}
	filtered := make([]model.CanonicalJob, 0, len(m.allJobs))
	for _, j := range m.allJobs {
		if j.JobCategory == cat {
			filtered = append(filtered, j)
		}
	}
	m.visible = filtered
}

func (m *reviewModel) moveCursor(delta int) {
	m.cursor = clamp(m.cursor+delta, 0, max(len(m.visible)-1, 0))
	m.recalcContent()
	m.ensureCursorVisible()
}

func (m *reviewModel) ensureCursorVisible() {
	cursorTop := m.cursor * jobItemHeight
	cursorBottom := cursorTop + jobItemHeight - 1

	if cursorTop < m.listViewport.YOffset {
		m.listViewport.SetYOffset(cursorTop)
	} else if cursorBottom >= m.listViewport.YOffset+m.listViewport.Height {
		m.listViewport.SetYOffset(cursorBottom - m.listViewport.Height + 1)
	}
}

func (m reviewModel) openDetailView() (tea.Model, tea.Cmd) {
	if len(m.visible) == 0 {
		return m, nil
	}

	m.view = viewDetail
	m.detailJob = m.visible[m.cursor]
	m.detailViewport = viewport.New(m.width-4, m.height-4)
	m.detailViewport.SetContent(m.renderDetail())
	return m, nil
}

func (m *reviewModel) recalcLayout() {
	paneWidth := max(m.width-2, 20)

	// Header (1 line) + border top/bottom (2) + status bar (1) = 4 lines overhead.
	paneHeight := max(m.height-4, 5)

	if !m.ready {
		m.listViewport = viewport.New(paneWidth, paneHeight)
		m.ready = true
	} else {
		m.listViewport.Width = paneWidth
		m.listViewport.Height = paneHeight
	}

	m.recalcContent()
}

func (m *reviewModel) recalcContent() {
	m.listViewport.SetContent(renderJobs(m.visible, m.cursor))
}

func (m reviewModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	if m.view == viewDetail {
		return m.viewDetail()
	}

	return m.viewList()
}

func (m reviewModel) viewList() string {
	category := m.categories[m.categoryIndex]
	if category == "" {
		category = "All Categories"
	}
	header := headerStyle.Render(fmt.Sprintf(" %s (%d)", category, len(m.visible)))

	pane := borderStyle.Width(m.listViewport.Width).Render(m.listViewport.View())

	statusText := fmt.Sprintf(" %d jobs in feed    ←/→/Tab category  ↑/↓ cursor  Enter detail  q quit",
		len(m.allJobs))
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return header + "\n" + pane + "\n" + statusBar
}

func (m reviewModel) viewDetail() string {
	title := detailTitleStyle.Render("Job Details")

	border := borderStyle.Width(m.width - 2)
	content := border.Render(m.detailViewport.View())

	statusText := " esc/backspace back  ↑/↓ scroll  q quit"
	if m.detailJob.ApplyURL != "" {
		statusText = " o open apply URL  esc/backspace back  ↑/↓ scroll  q quit"
	}
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return title + "\n" + content + "\n" + statusBar
}

func (m reviewModel) renderDetail() string {
	j := m.detailJob
	var b strings.Builder

	addField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(detailLabelStyle.Render(label))
		b.WriteString(detailValueStyle.Render(value))
		b.WriteByte('\n')
	}

	addField("Title", j.JobTitle)
	addField("Company", j.Company)
	addField("Location", j.Location)
	addField("Category", j.JobCategory)
	addField("Job Type", j.JobType)
	addField("Source", j.Source)

	b.WriteByte('\n')
	addField("Salary", j.Salary)
	addField("Experience", j.Experience)
	addField("Qualification", j.Qualification)
	addField("Date Posted", j.DatePosted)
	addField("Deadline", j.Deadline)

	b.WriteByte('\n')
	addField("Contact Email", j.ContactEmail)
	addField("Contact Phone", j.ContactPhone)
	addField("Apply URL", j.ApplyURL)

	wrapWidth := max(m.width-8, 20)
	divider := func(label string) string {
		fill := strings.Repeat("─", max(wrapWidth-len(label), 3))
		return sectionDividerStyle.Render(label + fill)
	}
	addBullets := func(label string, items []string) {
		if len(items) == 0 {
			return
		}
		b.WriteByte('\n')
		b.WriteString(divider("── "+label+" ") + "\n\n")
		for _, item := range items {
			if item == "" {
				continue
			}
			b.WriteString(sectionBodyStyle.Render("  • "+wordWrap(item, wrapWidth-4)) + "\n")
		}
	}

	addBullets("Requirements", j.Requirements)
	addBullets("Responsibilities", j.Responsibilities)
	addBullets("How To Apply", j.HowToApply)

	return b.String()
}

func renderJobs(jobs []model.CanonicalJob, cursor int) string {
	if len(jobs) == 0 {
		return "  (no jobs)"
	}

	var b strings.Builder
	for i, j := range jobs {
		isSelected := i == cursor

		titleSt := jobTitleStyle
		subtitleSt := jobSubtitleStyle
		prefix := "  "
		if isSelected {
			titleSt = selectedJobTitleStyle
			subtitleSt = selectedJobSubtitleStyle
			prefix = "> "
		}

		b.WriteString(prefix)
		b.WriteString(titleSt.Render(j.JobTitle))
		b.WriteByte('\n')

		posted := j.DatePosted
		if posted == "" {
			posted = "n/a"
		}
		company := j.Company
		if company == "" {
			company = "unknown"
		}
		b.WriteString(prefix)
		b.WriteString(subtitleSt.Render(fmt.Sprintf("%s · %s · %s", company, j.Location, posted)))
		b.WriteByte('\n')

		if i < len(jobs)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// categoriesOf collects the distinct categories present in the feed,
// sorted, with "" (no filter) first.
func categoriesOf(jobs []model.CanonicalJob) []string {
	seen := map[string]bool{}
	for _, j := range jobs {
		if j.JobCategory != "" {
			seen[j.JobCategory] = true
		}
	}
	cats := make([]string, 0, len(seen)+1)
	for c := range seen {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	return append([]string{""}, cats...)
}

func sortJobsByDate(jobs []model.CanonicalJob) {
	sort.SliceStable(jobs, func(i, j int) bool {
		return jobs[i].DatePosted > jobs[j].DatePosted
	})
}

func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// openURL opens url in the default system browser, fire-and-forget.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}
	_ = cmd.Start()
}

// Run launches the interactive feed browser over the given jobs.
func Run(jobs []model.CanonicalJob) error {
	sortJobsByDate(jobs)

	m := reviewModel{
		allJobs:    jobs,
		categories: categoriesOf(jobs),
		visible:    jobs,
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
