package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/tatianab/proposal-game/internal/dodge"
	"github.com/tatianab/proposal-game/internal/engine"
	"github.com/tatianab/proposal-game/internal/geom"
	"github.com/tatianab/proposal-game/internal/interact"
	"github.com/tatianab/proposal-game/internal/strike"
)

const (
	hudHeight     = 12
	defaultWidth  = 100
	defaultHeight = 32
	aimReach      = 14
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5FAF")).
			Bold(true).
			Underline(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	stateStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	mapStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5F5F87"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("#FF5FAF")).
			Foreground(lipgloss.Color("#EEEEEE")).
			Padding(1, 2)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD75F")).
			Bold(true)

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			Padding(0, 1).
			MarginRight(1)

	toastStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1C1C1C")).
			Background(lipgloss.Color("#FFD75F")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F"))
)

// ink is the colour class of one map cell.
type ink int

const (
	inkFloor ink = iota
	inkProp
	inkPropDim
	inkFocus
	inkYes
	inkStruck
	inkNo
	inkPlayer
	inkAim
	inkBubble
	inkSpark
	inkHeart
	inkConfetti
	inkText
	inkFadeBlack
	inkFadeWhite
)

var inks = []lipgloss.Style{
	inkFloor:     lipgloss.NewStyle().Foreground(lipgloss.Color("#3A3A3A")),
	inkProp:      lipgloss.NewStyle().Foreground(lipgloss.Color("#87D7FF")).Bold(true),
	inkPropDim:   lipgloss.NewStyle().Foreground(lipgloss.Color("#5F5F5F")),
	inkFocus:     lipgloss.NewStyle().Foreground(lipgloss.Color("#1C1C1C")).Background(lipgloss.Color("#87D7FF")).Bold(true),
	inkYes:       lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true),
	inkStruck:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FFAF00")),
	inkNo:        lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")),
	inkPlayer:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5FAF")).Bold(true),
	inkAim:       lipgloss.NewStyle().Foreground(lipgloss.Color("#875F5F")),
	inkBubble:    lipgloss.NewStyle().Foreground(lipgloss.Color("#1C1C1C")).Background(lipgloss.Color("#FFFFFF")),
	inkSpark:     lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFAF")),
	inkHeart:     lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0087")),
	inkConfetti:  lipgloss.NewStyle().Foreground(lipgloss.Color("#AF87FF")),
	inkText:      lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD7FF")).Bold(true),
	inkFadeBlack: lipgloss.NewStyle().Foreground(lipgloss.Color("#000000")),
	inkFadeWhite: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")),
}

var buttonKeys = map[interact.Category]string{
	interact.Primary:   "E",
	interact.Secondary: "R",
	interact.Tertiary:  "C",
	interact.Pet:       "P",
}

// canvas maps the XZ floor of a scene onto terminal cells, with -Z at the
// top.
type canvas struct {
	b      geom.Bounds
	cols   int
	rows   int
	glyphs [][]rune
	inks   [][]ink
}

func newCanvas(b geom.Bounds, cols, rows int) *canvas {
	c := &canvas{b: b, cols: max(cols, 1), rows: max(rows, 1)}
	c.glyphs = make([][]rune, c.rows)
	c.inks = make([][]ink, c.rows)
	for r := range c.glyphs {
		c.glyphs[r] = []rune(strings.Repeat("·", c.cols))
		c.inks[r] = make([]ink, c.cols)
	}
	return c
}

func (c *canvas) cell(p geom.Vec3) (col, row int, ok bool) {
	w, d := c.b.Width(), c.b.Depth()
	if w <= 0 || d <= 0 {
		return 0, 0, false
	}
	col = int(math.Floor((p.X - c.b.MinX) / w * float64(c.cols)))
	row = int(math.Floor((p.Z - c.b.MinZ) / d * float64(c.rows)))
	if col == c.cols {
		col--
	}
	if row == c.rows {
		row--
	}
	return col, row, col >= 0 && col < c.cols && row >= 0 && row < c.rows
}

func (c *canvas) put(p geom.Vec3, r rune, k ink) {
	if col, row, ok := c.cell(p); ok {
		c.glyphs[row][col] = r
		c.inks[row][col] = k
	}
}

// write centres s on p, dRow rows above it, clipped to the canvas.
func (c *canvas) write(p geom.Vec3, s string, k ink, dRow int) {
	col, row, _ := c.cell(p)
	row -= dRow
	if row < 0 || row >= c.rows {
		return
	}
	runes := []rune(s)
	start := col - len(runes)/2
	for i, r := range runes {
		x := start + i
		if x < 0 || x >= c.cols {
			continue
		}
		c.glyphs[row][x] = r
		c.inks[row][x] = k
	}
}

func (c *canvas) line(from, to geom.Vec3, r rune, k ink) {
	steps := int(from.Dist(to) * 2)
	for i := 1; i <= steps; i++ {
		p := from.Lerp(to, float64(i)/float64(steps))
		if col, row, ok := c.cell(p); ok && c.inks[row][col] == inkFloor {
			c.glyphs[row][col] = r
			c.inks[row][col] = k
		}
	}
}

func (c *canvas) fill(r rune, k ink) {
	for row := range c.glyphs {
		for col := range c.glyphs[row] {
			c.glyphs[row][col] = r
			c.inks[row][col] = k
		}
	}
}

// String renders runs of equal ink together.
func (c *canvas) String() string {
	var b strings.Builder
	for row := range c.glyphs {
		if row > 0 {
			b.WriteByte('\n')
		}
		start := 0
		for col := 1; col <= c.cols; col++ {
			if col < c.cols && c.inks[row][col] == c.inks[row][start] {
				continue
			}
			b.WriteString(inks[c.inks[row][start]].Render(string(c.glyphs[row][start:col])))
			start = col
		}
	}
	return b.String()
}

func (m model) View() string {
	if m.err != nil {
		return fmt.Sprintf("\n  %s\n\nPress ctrl+c to quit.\n", errorStyle.Render("Error: "+m.err.Error()))
	}
	width, height := m.width, m.height
	if width == 0 {
		width, height = defaultWidth, defaultHeight
	}
	v := m.engine.Snapshot()

	mapW := max(width-sideWidth(width)-4, 16)
	mapH := max(height-6, 8)

	var main string
	switch v.Overlay {
	case engine.SplashOverlay:
		main = lipgloss.Place(mapW, mapH, lipgloss.Center, lipgloss.Center, m.renderSplash())
	case engine.PassphraseOverlay:
		main = lipgloss.Place(mapW, mapH, lipgloss.Center, lipgloss.Center, m.renderPassphrase(v))
	case engine.NoOverlay:
		main = m.renderMap(v, mapW, mapH)
	default:
		main = lipgloss.Place(mapW, mapH, lipgloss.Center, lipgloss.Center, renderPanel(v, min(mapW-4, 72)))
	}
	main = mapStyle.Render(main)

	top := lipgloss.JoinHorizontal(lipgloss.Top, main, m.renderState(v, sideWidth(width), lipgloss.Height(main)))
	return lipgloss.JoinVertical(lipgloss.Left, top, m.renderPrompt(v), m.renderHelp(v))
}

func sideWidth(total int) int {
	return max(total/3, 28)
}

func (m model) renderSplash() string {
	title := titleStyle.Render(m.engine.Variant().Title)
	splash := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF5FAF")).
		Bold(true).
		Render(m.engine.Variant().Texts.Splash)
	return lipgloss.JoinVertical(lipgloss.Center, splash, "", title)
}

func (m model) renderPassphrase(v engine.View) string {
	lines := []string{titleStyle.Render(v.PassphraseHint), "", m.textInput.View()}
	if v.PassphraseError != "" {
		lines = append(lines, "", errorStyle.Render(v.PassphraseError))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func renderPanel(v engine.View, width int) string {
	var body string
	switch v.Overlay {
	case engine.EmailOverlay:
		body = fmt.Sprintf("%s %s\n%s %s\n\n%s",
			titleStyle.Render("From:"), v.Email.From,
			titleStyle.Render("Subject:"), v.Email.Subject,
			strings.TrimSpace(v.Email.Body))
	case engine.GuidelinesOverlay:
		body = strings.TrimSpace(v.Guidelines)
	case engine.CelebrationOverlay:
		body = titleStyle.Render(v.Celebration)
		if v.Narration != "" {
			body += "\n\n" + helpStyle.Render(v.Narration)
		}
	case engine.ShareOverlay:
		body = titleStyle.Render("Share the news") + "\n\n" + v.Share
	case engine.RejectionOverlay:
		body = errorStyle.Render(v.Rejection)
	}
	return panelStyle.Width(max(width, 20)).Render(body)
}

func (m model) renderMap(v engine.View, maxW, maxH int) string {
	b := v.Bounds
	w, d := b.Width(), b.Depth()
	k := math.Min(float64(maxH)/d, float64(maxW)/(2*w))
	c := newCanvas(b, int(w*2*k), int(d*k))

	if v.Decorated {
		for col := 0; col < c.cols; col += 3 {
			c.glyphs[0][col], c.inks[0][col] = '♥', inkHeart
			c.glyphs[c.rows-1][col], c.inks[c.rows-1][col] = '♥', inkHeart
		}
	}
	for _, sp := range v.Spots {
		switch {
		case sp.Kind == dodge.Yes && sp.Struck:
			c.put(sp.Pos, '★', inkStruck)
		case sp.Kind == dodge.Yes:
			c.put(sp.Pos, 'Y', inkYes)
		case sp.Dodging:
			c.put(sp.Pos, 'n', inkNo)
		default:
			c.put(sp.Pos, 'N', inkNo)
		}
	}
	for _, p := range v.Props {
		glyph := 'o'
		if p.Glyph != "" {
			glyph = []rune(p.Glyph)[0]
		}
		switch {
		case p.Focused:
			c.put(p.Pos, glyph, inkFocus)
		case p.Eligible:
			c.put(p.Pos, glyph, inkProp)
		default:
			c.put(p.Pos, glyph, inkPropDim)
		}
	}
	if v.Aiming {
		eye := v.Player
		c.line(eye, eye.Add(geom.Heading(v.Yaw).Scale(aimReach)), '∙', inkAim)
	}
	for _, p := range v.Particles {
		switch p.Kind {
		case strike.Heart:
			c.put(p.Pos, '♥', inkHeart)
		case strike.Confetti, strike.Shower:
			c.put(p.Pos, '*', inkConfetti)
		case strike.Flash, strike.Spark:
			c.put(p.Pos, '✧', inkSpark)
		case strike.Tracer:
			c.line(p.Pos, p.End, '-', inkSpark)
		}
	}
	c.put(v.Player, playerGlyph(v), inkPlayer)
	for _, p := range v.Particles {
		if p.Kind == strike.Text {
			c.write(p.Pos, p.Text, inkText, 2)
		}
	}
	for _, bb := range v.Bubbles {
		c.write(bb.Pos, " "+bb.Text+" ", inkBubble, 1)
	}

	if v.Fade > 0.05 {
		k := inkFadeBlack
		if v.FadeColor == "white" {
			k = inkFadeWhite
		}
		c.fill(shade(v.Fade), k)
	}
	return lipgloss.Place(maxW, maxH, lipgloss.Center, lipgloss.Center, c.String())
}

func playerGlyph(v engine.View) rune {
	if v.Posing {
		return '✦'
	}
	f := geom.Heading(v.Yaw)
	if math.Abs(f.X) > math.Abs(f.Z) {
		if f.X > 0 {
			return '▶'
		}
		return '◀'
	}
	if f.Z < 0 {
		return '▲'
	}
	return '▼'
}

func shade(alpha float64) rune {
	switch {
	case alpha < 0.35:
		return '░'
	case alpha < 0.65:
		return '▒'
	case alpha < 0.95:
		return '▓'
	}
	return '█'
}

func (m model) renderState(v engine.View, width, height int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(strings.ToUpper(m.engine.Variant().Title)) + "\n")
	fmt.Fprintf(&b, "%s  %s\n\n", v.SceneName, helpStyle.Render(string(v.State)))

	if v.Task != "" {
		b.WriteString(titleStyle.Render("TASK") + "\n" + v.Task + "\n\n")
	}
	if v.Counter != "" {
		b.WriteString(promptStyle.Render(v.Counter) + "\n\n")
	}
	if v.Toast != "" {
		b.WriteString(toastStyle.Render(v.Toast) + "\n\n")
	}
	b.WriteString(titleStyle.Render("LOG") + "\n")
	b.WriteString(m.viewport.View())

	return stateStyle.Width(width).Height(height).Render(b.String())
}

func (m model) renderPrompt(v engine.View) string {
	line := promptStyle.Render(v.Prompt)
	var buttons []string
	for _, bt := range v.Buttons {
		buttons = append(buttons, buttonStyle.Render("["+buttonKeys[bt.Category]+"] "+bt.Label))
	}
	return lipgloss.JoinVertical(lipgloss.Left, line, lipgloss.JoinHorizontal(lipgloss.Top, buttons...))
}

func (m model) renderHelp(v engine.View) string {
	k := m.keys
	switch v.Overlay {
	case engine.PassphraseOverlay:
		return m.help.ShortHelpView(k.overlayHelp(k.Submit))
	case engine.EmailOverlay:
		return m.help.ShortHelpView(k.overlayHelp(k.Accept, k.Decline))
	case engine.ShareOverlay:
		return m.help.ShortHelpView(k.overlayHelp(k.Copy, k.Close))
	case engine.GuidelinesOverlay, engine.CelebrationOverlay:
		return m.help.ShortHelpView(k.overlayHelp(k.Close))
	case engine.SplashOverlay, engine.RejectionOverlay:
		return m.help.ShortHelpView(k.overlayHelp())
	}
	return m.help.View(k)
}

var _ help.KeyMap = keyMap{}
