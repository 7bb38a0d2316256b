// Package cli реализует текстовый интерфейс клиента Market Scout.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/marketscout-client/internal/api"
	"github.com/mmeshcher/marketscout-client/internal/catalog"
	"github.com/mmeshcher/marketscout-client/internal/model"
	"github.com/mmeshcher/marketscout-client/internal/notice"
	"github.com/mmeshcher/marketscout-client/internal/ranking"
	"github.com/mmeshcher/marketscout-client/internal/review"
	"github.com/mmeshcher/marketscout-client/internal/session"
)

// Демо-данные тональности для недоступного бэкенда.
var demoSentiment = model.Sentiment{AverageSentiment: 0.65, ReviewsCount: 12}

// App связывает компоненты клиента с командной строкой.
type App struct {
	session *session.Controller
	catalog *catalog.Catalog
	board   *ranking.Board
	engine  *ranking.Engine
	review  *review.Submitter
	client  *api.Client
	logger  *zap.Logger

	in  *bufio.Scanner
	out io.Writer
}

// New создаёт приложение командной строки.
func New(
	sess *session.Controller,
	cat *catalog.Catalog,
	board *ranking.Board,
	engine *ranking.Engine,
	rev *review.Submitter,
	client *api.Client,
	logger *zap.Logger,
	in io.Reader,
	out io.Writer,
) *App {
	return &App{
		session: sess,
		catalog: cat,
		board:   board,
		engine:  engine,
		review:  rev,
		client:  client,
		logger:  logger,
		in:      bufio.NewScanner(in),
		out:     out,
	}
}

// Run выполняет стартовую проверку сессии, параллельно загружает каталог и
// таблицу лидеров и входит в цикл обработки команд.
func (a *App) Run(ctx context.Context) error {
	a.session.Check(ctx)
	a.refreshAll(ctx)

	a.printf("Market Scout — discover artisan food markets")
	if !a.catalog.Connected() {
		a.printf("backend unreachable, showing sample data (demo mode)")
	}
	if user := a.session.User(); user != nil {
		a.printf("signed in as %s", user.Username)
	}
	a.printf("type 'help' for commands")

	for {
		a.printPrompt()

		if !a.in.Scan() {
			return a.in.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		line := strings.TrimSpace(a.in.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "help":
			a.printHelp()
		case "markets":
			a.renderMarkets()
		case "top":
			a.renderLeaderboard()
		case "login":
			a.handleLogin(ctx)
		case "register":
			a.handleRegister(ctx)
		case "logout":
			a.session.Logout(ctx)
			a.printf("signed out")
		case "me":
			a.renderUser()
		case "review":
			a.handleReview(ctx, args)
		case "add":
			a.handleAddMarket(ctx)
		case "sentiment":
			a.handleSentiment(ctx, args)
		case "follow":
			a.handleFollow(ctx, args, true)
		case "unfollow":
			a.handleFollow(ctx, args, false)
		case "refresh":
			a.refreshAll(ctx)
			a.printf("catalog and leaderboard refreshed")
		case "quit", "exit":
			return nil
		default:
			a.printf("unknown command %q, type 'help'", cmd)
		}
	}
}

// refreshAll загружает каталог и таблицу лидеров параллельно и передаёт
// результаты движку рейтинга.
func (a *App) refreshAll(ctx context.Context) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := a.catalog.Fetch(gctx); err != nil {
			a.logger.Error("catalog refresh failed", zap.Error(err))
		}
		return nil
	})
	g.Go(func() error {
		if err := a.board.Fetch(gctx); err != nil {
			a.logger.Error("leaderboard refresh failed", zap.Error(err))
		}
		return nil
	})

	_ = g.Wait()

	if a.catalog.Loaded() {
		a.engine.SetMarkets(a.catalog.Markets())
	}
	if a.board.Loaded() {
		a.engine.SetEntries(a.board.Entries())
	}
}

func (a *App) refreshBoard(ctx context.Context) {
	if err := a.board.Fetch(ctx); err != nil {
		a.logger.Error("leaderboard refresh failed", zap.Error(err))
		return
	}
	a.engine.SetEntries(a.board.Entries())
}

func (a *App) renderMarkets() {
	if a.catalog.Fetching() {
		a.printf("loading markets...")
		return
	}

	joined := a.engine.Joined()
	if len(joined) == 0 {
		a.printf("no markets in the catalog yet")
		return
	}

	for _, m := range joined {
		score := "unrated"
		if m.Score != nil {
			score = ranking.FormatScore(*m.Score)
		}
		a.printf("#%d  %-28s %-32s %-18s score: %s", m.ID, m.Name, m.Address, m.Type, score)
	}
}

func (a *App) renderLeaderboard() {
	if a.board.Fetching() {
		a.printf("loading leaderboard...")
		return
	}

	switch a.engine.State() {
	case ranking.BoardLoading:
		a.printf("loading leaderboard...")
	case ranking.BoardEmpty:
		// Пустой рейтинг — отдельное состояние, не похожее на загрузку.
		a.printf("No rankings yet. Reviews are needed to generate scores!")
	case ranking.BoardReady:
		a.printf("Top Rated Markets  [%s]", ranking.Formula)
		for i, m := range a.engine.Ranked() {
			a.printf("%2d. %-28s %s", i+1, m.Name, ranking.FormatScore(*m.Score))
		}
	}
}

func (a *App) renderUser() {
	user := a.session.User()
	if user == nil {
		a.printf("not signed in")
		return
	}
	verified := "no"
	if user.EmailVerified {
		verified = "yes"
	}
	a.printf("id: %d", user.ID)
	a.printf("username: %s", user.Username)
	a.printf("email: %s (verified: %s)", user.Email, verified)
	a.printf("role: %s", user.Role)
}

func (a *App) handleLogin(ctx context.Context) {
	username := a.prompt("username: ")
	password := a.prompt("password: ")

	res := a.session.Login(ctx, username, password)
	switch {
	case res.OK && res.Mock:
		a.printf("%s", res.Message)
	case res.OK:
		a.printf("signed in as %s", a.session.User().Username)
	default:
		a.printf("login failed: %s", res.Message)
	}
}

func (a *App) handleRegister(ctx context.Context) {
	username := a.prompt("username: ")
	email := a.prompt("email: ")
	password := a.prompt("password: ")

	res := a.session.Register(ctx, username, email, password)
	if res.OK {
		a.printf("%s", res.Message)
		a.printf("use 'login' to sign in")
		return
	}
	a.printf("registration failed: %s", res.Message)
}

func (a *App) handleReview(ctx context.Context, args []string) {
	if a.session.State() != session.StateAuthenticated {
		a.printf("sign in to post a review")
		return
	}
	if len(args) < 3 {
		a.printf("usage: review <market-id> <rating 1-5> <text>")
		return
	}

	marketID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		a.printf("invalid market id %q", args[0])
		return
	}
	rating, err := strconv.Atoi(args[1])
	if err != nil {
		a.printf("invalid rating %q", args[1])
		return
	}
	text := strings.Join(args[2:], " ")

	res := a.review.Submit(ctx, marketID, text, rating)
	a.printf("%s", res.Message)
	if res.RefreshBoard {
		// Новый отзыв может изменить оценку рынка.
		a.refreshBoard(ctx)
	}
}

func (a *App) handleAddMarket(ctx context.Context) {
	if a.session.State() != session.StateAuthenticated {
		a.printf("sign in to add a market")
		return
	}

	name := a.prompt("name: ")
	address := a.prompt("address: ")

	types := model.MarketTypes()
	labels := make([]string, len(types))
	for i, t := range types {
		labels[i] = string(t)
	}
	a.printf("categories: %s", strings.Join(labels, ", "))
	marketType := model.MarketType(a.prompt("category: "))

	res := a.catalog.Create(ctx, name, address, marketType)
	a.printf("%s", res.Message)
	if res.Refresh {
		a.refreshAll(ctx)
	}
}

func (a *App) handleSentiment(ctx context.Context, args []string) {
	if len(args) != 1 {
		a.printf("usage: sentiment <market-id>")
		return
	}
	marketID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		a.printf("invalid market id %q", args[0])
		return
	}

	sentiment, err := a.client.MarketSentiment(ctx, marketID)
	if err != nil {
		if api.IsUnreachable(err) {
			demo := demoSentiment
			demo.MarketID = marketID
			sentiment = &demo
			a.printf("(demo data)")
		} else {
			a.printf("sentiment unavailable: %s", errorText(err))
			return
		}
	}

	a.printf("market %d: average sentiment %.2f across %d reviews",
		sentiment.MarketID, sentiment.AverageSentiment, sentiment.ReviewsCount)
}

func (a *App) handleFollow(ctx context.Context, args []string, follow bool) {
	if a.session.State() != session.StateAuthenticated {
		a.printf("sign in first")
		return
	}
	if len(args) != 2 || (args[0] != "user" && args[0] != "market") {
		a.printf("usage: follow|unfollow user|market <id>")
		return
	}

	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		a.printf("invalid id %q", args[1])
		return
	}

	switch {
	case args[0] == "user" && follow:
		err = a.client.FollowUser(ctx, id)
	case args[0] == "user":
		err = a.client.UnfollowUser(ctx, id)
	case follow:
		err = a.client.FollowMarket(ctx, id)
	default:
		err = a.client.UnfollowMarket(ctx, id)
	}

	if err != nil {
		a.printf("request failed: %s", errorText(err))
		return
	}
	a.printf("done")
}

func (a *App) printHelp() {
	a.printf("markets                      list the market catalog")
	a.printf("top                          show the leaderboard")
	a.printf("login | register | logout    manage your session")
	a.printf("me                           show the current user")
	a.printf("review <id> <rating> <text>  post a review (rating 1-5, 10+ chars)")
	a.printf("add                          add a new market")
	a.printf("sentiment <id>               show review sentiment for a market")
	a.printf("follow user|market <id>      follow a user or market")
	a.printf("refresh                      refetch catalog and leaderboard")
	a.printf("quit                         exit")
}

// printPrompt показывает приглашение и актуальные временные сообщения, если
// они ещё не скрылись.
func (a *App) printPrompt() {
	a.printNotice(a.review.Notice())
	a.printNotice(a.catalog.Notice())
	fmt.Fprint(a.out, "> ")
}

func (a *App) printNotice(n *notice.Notice) {
	msg, ok, present := n.Current()
	if !present {
		return
	}
	marker := "!"
	if ok {
		marker = "*"
	}
	a.printf("[%s] %s", marker, msg)
}

func (a *App) prompt(label string) string {
	fmt.Fprint(a.out, label)
	if !a.in.Scan() {
		return ""
	}
	return strings.TrimSpace(a.in.Text())
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format+"\n", args...)
}

func errorText(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
