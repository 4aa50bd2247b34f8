// Package sh provides the interactive EMCU shell.
package sh

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/emcu.go/pkg/emcu"
	"github.com/robotalks/emcu.go/pkg/emcu/env"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	AutoConnect bool

	Shell   *ishell.Shell
	Config  *env.Config
	Driver  *emcu.Driver
	LinkURL string
}

// Action performs a command on the driver. A nil reply means the command
// expects no reply.
type Action func(drv *emcu.Driver, args []string) ([]byte, error)

// Result is the JSON output of an Action.
type Result struct {
	OK    bool   `json:"ok"`
	Reply string `json:"reply,omitempty"`
	Hex   string `json:"hex,omitempty"`
	Error string `json:"error,omitempty"`
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&ConnectCmd,
		&DisconnectCmd,
		&StatusCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *env.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected wraps command func requires a connection.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if s := ShellFrom(c); s.Driver == nil || !s.Driver.Connected() {
			c.Err(emcu.ErrNotConnected)
			return
		}
		fn(c)
	}
}

// DriverCmd creates a command running action on the connected driver.
func DriverCmd(name string, aliases []string, help string, action Action) *ishell.Cmd {
	return &ishell.Cmd{
		Name:    name,
		Aliases: aliases,
		Help:    help,
		Func: MustBeConnected(func(c *ishell.Context) {
			s := ShellFrom(c)
			reply, err := action(s.Driver, c.Args)
			c.Println(s.Format(reply, err))
		}),
	}
}

// Format renders the outcome of an Action.
func (s *Shell) Format(reply []byte, err error) string {
	if s.OutputJSON {
		res := Result{OK: err == nil, Reply: string(reply)}
		if len(reply) > 0 {
			res.Hex = hex.EncodeToString(reply)
		}
		if err != nil {
			res.Error = err.Error()
		}
		out, _ := json.Marshal(&res)
		return string(out)
	}
	var w strings.Builder
	switch {
	case err != nil:
		fmt.Fprintf(&w, "Error: %v", err)
		if len(reply) > 0 {
			fmt.Fprintf(&w, " (partial reply %q)", reply)
		}
	case reply == nil:
		w.WriteString("OK")
	default:
		w.WriteString(strings.TrimRight(string(reply), "\r\n"))
	}
	return w.String()
}

// WithAutoConnect sets AutoConnect.
func (s *Shell) WithAutoConnect(en bool) *Shell {
	s.AutoConnect = en
	return s
}

// Connect opens linkURL, or the configured link if empty.
func (s *Shell) Connect(linkURL string) error {
	conf := *s.Config
	if linkURL != "" {
		conf.Link = linkURL
	}
	rawURL, err := conf.LinkURL()
	if err != nil {
		return err
	}
	drv, err := conf.Connect()
	if err != nil {
		return err
	}
	s.Disconnect()
	s.Driver, s.LinkURL = drv, rawURL
	s.Shell.SetPrompt(fmt.Sprintf("[%s] > ", rawURL))
	return nil
}

// Disconnect closes current link.
func (s *Shell) Disconnect() {
	if s.Driver != nil {
		s.Driver.Close()
		s.Driver, s.LinkURL = nil, ""
		s.Shell.SetPrompt(unconnectedPrompt)
	}
}

// Status describes the connection.
type Status struct {
	Link          string `json:"link,omitempty"`
	Connected     bool   `json:"connected"`
	Header        string `json:"header,omitempty"`
	Window        string `json:"checksum_window,omitempty"`
	SettleDelay   string `json:"settle_delay,omitempty"`
	VerifyReplies bool   `json:"verify_replies"`
}

// Status reports the connection status.
func (s *Shell) Status() Status {
	if s.Driver == nil {
		return Status{}
	}
	return Status{
		Link:          s.LinkURL,
		Connected:     s.Driver.Connected(),
		Header:        hex.EncodeToString(s.Driver.Codec.Header),
		Window:        s.Driver.Codec.Window.String(),
		SettleDelay:   s.Driver.SettleDelay.String(),
		VerifyReplies: s.Driver.VerifyReplies,
	}
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if s.AutoConnect {
		if _, err := s.Config.LinkURL(); err == nil {
			if err = s.Connect(""); err != nil {
				log.Fatalf("connect failed: %v", err)
			}
		}
	}
	defer s.Disconnect()

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// ConnectCmd opens a link.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "[LINK-URL]",
		Func: func(c *ishell.Context) {
			var linkURL string
			if len(c.Args) > 0 {
				linkURL = c.Args[0]
			}
			if err := ShellFrom(c).Connect(linkURL); err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd closes current link.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}

	// StatusCmd prints the connection status.
	StatusCmd = ishell.Cmd{
		Name:    "status",
		Aliases: []string{"st"},
		Help:    "",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			st := s.Status()
			if s.OutputJSON {
				out, err := json.Marshal(&st)
				if err != nil {
					c.Err(err)
					return
				}
				c.Println(string(out))
				return
			}
			if st.Link == "" {
				c.Println("Not connected")
				return
			}
			c.Printf("%s connected=%v header=%s window=%s settle=%s verify=%v\n",
				st.Link, st.Connected, st.Header, st.Window, st.SettleDelay, st.VerifyReplies)
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(env.MustLoad()).WithAutoConnect(true).Run(flag.Args()...)
}
