// Package main starts the ForumDesk console client: it wires configuration,
// logging, the in-memory stores and the directory facade, then runs an
// interactive shell standing in for the desktop UI.
package main

import (
	"bufio"
	"cmp"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/ForumDesk/internal/clock"
	"github.com/atinyakov/ForumDesk/internal/config"
	"github.com/atinyakov/ForumDesk/internal/logger"
	"github.com/atinyakov/ForumDesk/internal/models"
	"github.com/atinyakov/ForumDesk/internal/repository"
	"github.com/atinyakov/ForumDesk/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Build the in-memory stores.
	clk := clock.System()
	authRepo := repository.NewMemoryAuthRepository(clk,
		options.MaxLoginAttempts,
		time.Duration(options.LockoutMinutes)*time.Minute,
	)
	mailRepo := repository.NewMemoryMailRepository(clk)
	forumRepo := repository.NewMemoryForumRepository(clk)

	// Compose the directory facade with the welcome-message policy.
	dir := service.NewDirectory(authRepo, mailRepo, forumRepo, service.WelcomePolicy{
		From:    options.WelcomeFrom,
		Subject: options.WelcomeSubject,
		Body:    options.WelcomeBody,
	}, zapLogger)

	// Start purging expired lockout records in the background.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	repository.StartLockoutSweeper(ctx, authRepo,
		time.Duration(options.SweepIntervalSeconds)*time.Second, zapLogger)

	repl(ctx, dir)
}

// session is the presentation-side view of who is logged in.
type session struct {
	token    string
	username string
}

// repl runs the interactive shell loop. The shell is the caller the stores
// are permissive for: it validates blank input, enforces author-only edits
// and re-reads state after every mutation.
func repl(ctx context.Context, dir *service.Directory) {
	scanner := bufio.NewScanner(os.Stdin)
	var current *session

	fmt.Println(`Type "help" for the command list.`)
	for {
		if current == nil {
			fmt.Print("forumdesk> ")
		} else {
			fmt.Printf("forumdesk:%s> ", current.username)
		}
		if !scanner.Scan() {
			break
		}
		args := strings.Fields(strings.TrimSpace(scanner.Text()))
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "help":
			printHelp()
		case "exit", "quit":
			return
		case "register":
			if len(args) < 3 {
				fmt.Println("Usage: register <username> <password>")
				continue
			}
			exists, _ := dir.UserExists(ctx, args[1])
			if exists {
				fmt.Println("Username already taken")
				continue
			}
			if err := dir.Register(ctx, args[1], args[2]); err != nil {
				fmt.Println("registration failed:", err)
				continue
			}
			fmt.Println("Registered. You can log in now.")
		case "login":
			if len(args) < 3 {
				fmt.Println("Usage: login <username> <password>")
				continue
			}
			res, err := dir.Login(ctx, args[1], args[2])
			if err != nil {
				fmt.Println("login failed:", err)
				continue
			}
			switch res.Outcome {
			case service.LoginOK:
				current = &session{token: res.Token, username: args[1]}
				fmt.Println("Logged in as", args[1])
			case service.LoginLockedOut:
				fmt.Printf("Account locked. Try again in %d minutes.\n", res.MinutesRemaining)
			default:
				fmt.Println("Invalid username or password")
			}
		case "logout":
			if current == nil {
				continue
			}
			_ = dir.Logout(ctx, current.token)
			current = nil
			fmt.Println("Logged out")
		default:
			if current == nil {
				fmt.Println("Log in first (register/login)")
				continue
			}
			runUserCommand(ctx, dir, current, scanner, args)
		}
	}
}

func runUserCommand(ctx context.Context, dir *service.Directory, current *session, scanner *bufio.Scanner, args []string) {
	user := current.username
	switch args[0] {
	case "inbox":
		msgs, _ := dir.Mail().Inbox(ctx, user)
		printMessages(msgs, true)
	case "sent":
		msgs, _ := dir.Mail().SentItems(ctx, user)
		printMessages(msgs, false)
	case "drafts":
		msgs, _ := dir.Mail().Drafts(ctx, user)
		printMessages(msgs, false)
	case "compose":
		to := prompt(scanner, "To (optional): ")
		subject := prompt(scanner, "Subject (optional): ")
		body := prompt(scanner, "Body: ")
		id, _ := dir.Mail().Compose(ctx, user, to, subject, body)
		fmt.Println("Draft saved with id", id)
	case "send":
		to := prompt(scanner, "To: ")
		subject := prompt(scanner, "Subject: ")
		if strings.TrimSpace(to) == "" || strings.TrimSpace(subject) == "" {
			fmt.Println("Recipient and subject are required")
			return
		}
		body := prompt(scanner, "Body: ")
		id, _ := dir.Mail().Send(ctx, user, to, subject, body)
		fmt.Println("Sent message", id)
	case "senddraft":
		id, ok := parseID(args, 1, "Usage: senddraft <id>")
		if !ok {
			return
		}
		_ = dir.Mail().SendDraft(ctx, id)
		// Re-read: a draft without recipient or subject stays a draft.
		drafts, _ := dir.Mail().Drafts(ctx, user)
		for _, d := range drafts {
			if d.ID == id {
				fmt.Println("Draft not sent: recipient and subject are required")
				return
			}
		}
		fmt.Println("Draft sent")
	case "read":
		id, ok := parseID(args, 1, "Usage: read <id>")
		if !ok {
			return
		}
		_ = dir.Mail().MarkRead(ctx, id, user)
	case "delmail":
		id, ok := parseID(args, 1, "Usage: delmail <id>")
		if !ok {
			return
		}
		_ = dir.Mail().Delete(ctx, id, user)
	case "questions":
		qs, _ := dir.Forum().Questions(ctx)
		printQuestions(qs)
	case "search":
		qs, _ := dir.Forum().SearchQuestions(ctx, strings.Join(args[1:], " "))
		printQuestions(qs)
	case "ask":
		title := prompt(scanner, "Title: ")
		body := prompt(scanner, "Question: ")
		if strings.TrimSpace(title) == "" || strings.TrimSpace(body) == "" {
			fmt.Println("Title and question text are required")
			return
		}
		id, _ := dir.Forum().AskQuestion(ctx, title, body, user)
		fmt.Println("Posted question", id)
	case "show":
		id, ok := parseID(args, 1, "Usage: show <question-id>")
		if !ok {
			return
		}
		q, _ := dir.Forum().Question(ctx, id)
		if q == nil {
			fmt.Println("Question not found")
			return
		}
		fmt.Printf("[%d] %s (%s, %s)\n%s\n", q.ID, q.Title, q.Author, q.Status, q.Body)
		answers, _ := dir.Forum().Answers(ctx, q.ID)
		for _, a := range answers {
			mark := " "
			if a.Accepted {
				mark = "*"
			}
			fmt.Printf("  %s[%d] %s: %s\n", mark, a.ID, a.Author, a.Body)
		}
	case "answer":
		id, ok := parseID(args, 1, "Usage: answer <question-id>")
		if !ok {
			return
		}
		body := prompt(scanner, "Your answer: ")
		if strings.TrimSpace(body) == "" {
			fmt.Println("Answer text is required")
			return
		}
		aid, _ := dir.Forum().Answer(ctx, id, body, user)
		fmt.Println("Posted answer", aid)
	case "editq":
		id, ok := parseID(args, 1, "Usage: editq <question-id>")
		if !ok {
			return
		}
		q, _ := dir.Forum().Question(ctx, id)
		if q == nil {
			fmt.Println("Question not found")
			return
		}
		if q.Author != user {
			fmt.Println("You can only edit your own questions")
			return
		}
		title := prompt(scanner, "New title: ")
		body := prompt(scanner, "New question text: ")
		if strings.TrimSpace(title) == "" || strings.TrimSpace(body) == "" {
			fmt.Println("Title and question text are required")
			return
		}
		_ = dir.Forum().EditQuestion(ctx, id, title, body)
	case "delq":
		id, ok := parseID(args, 1, "Usage: delq <question-id>")
		if !ok {
			return
		}
		q, _ := dir.Forum().Question(ctx, id)
		if q == nil {
			fmt.Println("Question not found")
			return
		}
		if q.Author != user {
			fmt.Println("You can only delete your own questions")
			return
		}
		_ = dir.Forum().DeleteQuestion(ctx, id)
	case "edita":
		qid, aid, ok := parseTwoIDs(args, "Usage: edita <question-id> <answer-id>")
		if !ok {
			return
		}
		a := findAnswer(ctx, dir, qid, aid)
		if a == nil {
			fmt.Println("Answer not found")
			return
		}
		if a.Author != user {
			fmt.Println("You can only edit your own answers")
			return
		}
		body := prompt(scanner, "New answer text: ")
		if strings.TrimSpace(body) == "" {
			fmt.Println("Answer text is required")
			return
		}
		_ = dir.Forum().EditAnswer(ctx, aid, body)
	case "dela":
		qid, aid, ok := parseTwoIDs(args, "Usage: dela <question-id> <answer-id>")
		if !ok {
			return
		}
		a := findAnswer(ctx, dir, qid, aid)
		if a == nil {
			fmt.Println("Answer not found")
			return
		}
		if a.Author != user {
			fmt.Println("You can only delete your own answers")
			return
		}
		_ = dir.Forum().DeleteAnswer(ctx, aid)
	case "accept":
		qid, aid, ok := parseTwoIDs(args, "Usage: accept <question-id> <answer-id>")
		if !ok {
			return
		}
		q, _ := dir.Forum().Question(ctx, qid)
		if q == nil {
			fmt.Println("Question not found")
			return
		}
		if q.Author != user {
			fmt.Println("Only the question author can accept an answer")
			return
		}
		_ = dir.Forum().AcceptAnswer(ctx, aid, qid)
	default:
		fmt.Println("Unknown command; type \"help\"")
	}
}

func printHelp() {
	fmt.Println(`Commands:
  register <user> <pass>   create an account (seeds a welcome message)
  login <user> <pass>      log in
  logout                   log out
  inbox | sent | drafts    mailbox views
  compose | send           write mail (compose saves a draft)
  senddraft <id>           send a saved draft
  read <id>                mark a received message read
  delmail <id>             delete a message
  questions                list all questions
  search <text>            search questions
  ask                      post a question
  show <qid>               show a question with its answers
  answer <qid>             answer a question
  editq <qid>              edit your question
  delq <qid>               delete your question (and its answers)
  edita <qid> <aid>        edit your answer
  dela <qid> <aid>         delete your answer
  accept <qid> <aid>       accept an answer to your question
  exit                     quit`)
}

func prompt(scanner *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}

func parseID(args []string, pos int, usage string) (int64, bool) {
	if len(args) <= pos {
		fmt.Println(usage)
		return 0, false
	}
	id, err := strconv.ParseInt(args[pos], 10, 64)
	if err != nil {
		fmt.Println(usage)
		return 0, false
	}
	return id, true
}

func parseTwoIDs(args []string, usage string) (int64, int64, bool) {
	first, ok := parseID(args, 1, usage)
	if !ok {
		return 0, 0, false
	}
	second, ok := parseID(args, 2, usage)
	if !ok {
		return 0, 0, false
	}
	return first, second, true
}

func findAnswer(ctx context.Context, dir *service.Directory, questionID, answerID int64) *models.Answer {
	answers, _ := dir.Forum().Answers(ctx, questionID)
	for _, a := range answers {
		if a.ID == answerID {
			return &a
		}
	}
	return nil
}

func printMessages(msgs []models.Message, inbox bool) {
	if len(msgs) == 0 {
		fmt.Println("(empty)")
		return
	}
	for _, m := range msgs {
		who := m.From
		if !inbox {
			who = m.To
		}
		flag := " "
		if inbox && !m.Read {
			flag = "N"
		}
		fmt.Printf("%s [%d] %s | %s | %s\n", flag, m.ID, who, m.Subject, m.SentAt.Format(time.DateTime))
	}
}

func printQuestions(qs []models.Question) {
	if len(qs) == 0 {
		fmt.Println("(no questions)")
		return
	}
	for _, q := range qs {
		fmt.Printf("[%d] %s | %s | %s | %s\n", q.ID, q.Title, q.Author, q.CreatedAt.Format(time.DateTime), q.Status)
	}
}
