// Command contention races concurrent joins against a running server and
// checks that exactly one of them got the seat.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"pair-lab/auth"
	"pair-lab/domain"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/gookit/color"
	"github.com/kelseyhightower/envconfig"
	"github.com/olekukonko/tablewriter"
)

type Config struct {
	BaseURL    string        `envconfig:"CONTENTION_BASE_URL" default:"http://localhost:3000"`
	AuthSecret string        `envconfig:"AUTH_SECRET" required:"true"`
	Joiners    int           `envconfig:"CONTENTION_JOINERS" default:"8"`
	Problem    string        `envconfig:"CONTENTION_PROBLEM" default:"Two Sum"`
	Difficulty string        `envconfig:"CONTENTION_DIFFICULTY" default:"easy"`
	Timeout    time.Duration `envconfig:"CONTENTION_TIMEOUT" default:"15s"`
	// CONTENTION_COLOURS enables colorized verdicts
	Colours bool `envconfig:"CONTENTION_COLOURS" default:"true"`
	// CONTENTION_END ends the session once the race is over
	End bool `envconfig:"CONTENTION_END" default:"true"`
}

type outcome struct {
	joiner   string
	status   int
	message  string
	duration time.Duration
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "contention: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return err
	}
	if cfg.Joiners < 2 {
		return fmt.Errorf("CONTENTION_JOINERS must be at least 2, got %d", cfg.Joiners)
	}
	client := &http.Client{Timeout: cfg.Timeout}
	secret := []byte(cfg.AuthSecret)

	host := domain.Member{ID: "contention-host", Name: "Contention Host"}
	hostToken, err := auth.GenerateToken(secret, host, time.Hour)
	if err != nil {
		return err
	}

	// 1. Create the session to fight over
	status, body, err := call(client, http.MethodPost, cfg.BaseURL+"/api/sessions", hostToken,
		map[string]string{"problem": cfg.Problem, "difficulty": cfg.Difficulty})
	if err != nil {
		return err
	}
	if status != http.StatusCreated {
		return fmt.Errorf("create returned %d: %s", status, body)
	}
	var created struct {
		Session struct {
			ID string `json:"_id"`
		} `json:"session"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		return fmt.Errorf("decode create response: %w", err)
	}
	sessionID := created.Session.ID

	// 2. Fire every join at once
	outcomes := make([]outcome, cfg.Joiners)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < cfg.Joiners; i++ {
		joiner := domain.Member{ID: "contender-" + strconv.Itoa(i), Name: "Contender " + strconv.Itoa(i)}
		token, err := auth.GenerateToken(secret, joiner, time.Hour)
		if err != nil {
			return err
		}
		wg.Add(1)
		go func(i int, token string) {
			defer wg.Done()
			<-start
			begin := time.Now()
			status, body, err := call(client, http.MethodPost,
				cfg.BaseURL+"/api/sessions/"+sessionID+"/join", token, nil)
			msg := messageOf(body)
			if err != nil {
				msg = err.Error()
			}
			outcomes[i] = outcome{joiner: joiner.ID, status: status, message: msg, duration: time.Since(begin)}
		}(i, token)
	}
	close(start)
	wg.Wait()

	if cfg.End {
		if status, body, err := call(client, http.MethodPost,
			cfg.BaseURL+"/api/sessions/"+sessionID+"/end", hostToken, nil); err != nil || status != http.StatusOK {
			fmt.Fprintf(os.Stderr, "end returned %d: %s %v\n", status, body, err)
		}
	}

	// 3. Report
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].duration < outcomes[j].duration })
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Joiner", "Status", "Message", "Duration"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	winners := 0
	for _, o := range outcomes {
		if o.status == http.StatusOK {
			winners++
		}
		table.Append([]string{o.joiner, strconv.Itoa(o.status), o.message, o.duration.Round(time.Millisecond).String()})
	}
	fmt.Printf("Session %s, %d concurrent joins\n", sessionID, cfg.Joiners)
	table.Render()

	verdict := fmt.Sprintf("%d winner(s) out of %d joins", winners, cfg.Joiners)
	if winners != 1 {
		if cfg.Colours {
			verdict = color.New(color.BgBlack, color.FgRed).Render(verdict)
		}
		fmt.Println(verdict)
		return fmt.Errorf("expected exactly one successful join, got %d", winners)
	}
	if cfg.Colours {
		verdict = color.New(color.BgBlack, color.FgGreen).Render(verdict)
	}
	fmt.Println(verdict)
	return nil
}

func call(client *http.Client, method, url, token string, payload any) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	return resp.StatusCode, body, err
}

func messageOf(body []byte) string {
	var payload struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Msg == "" {
		return "joined"
	}
	return payload.Msg
}
