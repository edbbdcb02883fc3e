package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/taskgraph/internal/dto"
	"github.com/yukikurage/taskgraph/internal/models"
)

type CLITestSuite struct {
	suite.Suite
	dir    string
	dbPath string
}

func (s *CLITestSuite) SetupTest() {
	s.dir = s.T().TempDir()
	s.dbPath = filepath.Join(s.dir, "tasks.db")
	s.T().Setenv("HOME", s.dir)
	s.T().Setenv("NO_COLOR", "1")
}

func TestCLITestSuite(t *testing.T) {
	suite.Run(t, new(CLITestSuite))
}

// exec runs one command line against the suite's database
func (s *CLITestSuite) exec(args ...string) (string, string, int) {
	var stdout, stderr bytes.Buffer
	code := run(append([]string{"--db", s.dbPath}, args...), &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

// execJSON runs a command with --json and decodes its output into v
func (s *CLITestSuite) execJSON(v interface{}, args ...string) int {
	stdout, stderr, code := s.exec(append(args, "--json")...)
	s.Require().NoError(json.Unmarshal([]byte(stdout), v), "stdout=%q stderr=%q", stdout, stderr)
	return code
}

func (s *CLITestSuite) create(title string, flags ...string) dto.TaskView {
	var view dto.TaskView
	code := s.execJSON(&view, append([]string{"create", title}, flags...)...)
	s.Require().Equal(0, code)
	return view
}

func (s *CLITestSuite) expectError(code string, args ...string) dto.ErrorEnvelope {
	var envelope dto.ErrorEnvelope
	exit := s.execJSON(&envelope, args...)
	s.Equal(1, exit)
	s.False(envelope.Success)
	s.Equal(code, envelope.Error.Code, envelope.Error.Message)
	return envelope
}

func idArg(view dto.TaskView) string {
	return strconv.FormatUint(view.ID, 10)
}

func (s *CLITestSuite) TestCreate_Defaults() {
	view := s.create("Fix bug")

	s.Equal("Fix bug", view.Title)
	s.Equal(models.TaskStatusBacklog, view.Status)
	s.Nil(view.ParentID)
	s.Nil(view.Parent)
	s.Empty(view.Tags)
	s.Empty(view.Metadata)
}

func (s *CLITestSuite) TestCreate_WithRelationships() {
	parent := s.create("Release")
	blocker := s.create("Fix CI")

	child := s.create("Write notes",
		"--parent", idArg(parent),
		"--blocked-by", idArg(blocker),
		"--tag", "docs",
		"--meta", "priority=high",
		"--meta", "link=a=b",
		"--author", "alice",
		"--status", "ready",
	)

	s.Require().NotNil(child.Parent)
	s.Equal(parent.ID, child.Parent.ID)
	s.Equal(models.TaskStatusReady, child.Status)
	s.Equal("alice", *child.Author)
	s.Require().Len(child.Tags, 1)
	s.Equal("docs", child.Tags[0].Name)
	s.Equal([]dto.MetadataDTO{
		{Key: "link", Value: "a=b"},
		{Key: "priority", Value: "high"},
	}, child.Metadata)

	var detail taskDetail
	s.Equal(0, s.execJSON(&detail, "show", idArg(child)))
	s.Equal([]uint64{blocker.ID}, detail.BlockedBy)
	s.Empty(detail.Blocks)

	var blockerDetail taskDetail
	s.Equal(0, s.execJSON(&blockerDetail, "show", idArg(blocker)))
	s.Equal([]uint64{child.ID}, blockerDetail.Blocks)

	var parentDetail taskDetail
	s.Equal(0, s.execJSON(&parentDetail, "show", idArg(parent)))
	s.Equal([]uint64{child.ID}, parentDetail.Children)
}

func (s *CLITestSuite) TestCreate_MissingBlockTargetCreatesNothing() {
	envelope := s.expectError("NOT_FOUND", "create", "Orphan", "--blocks", "99999")
	s.Equal("Error adding blocks relationship: task 99999 not found", envelope.Error.Message)

	var stats dto.StatusCountsResponse
	s.Equal(0, s.execJSON(&stats, "stats"))
	s.Equal(int64(0), stats.TotalCount)
}

func (s *CLITestSuite) TestCreate_Validation() {
	s.expectError("INVALID_INPUT", "create", strings.Repeat("a", 201))
	s.expectError("INVALID_INPUT", "create", "Task", "--status", "started")
	s.expectError("INVALID_INPUT", "create", "Task", "--parent", "abc")
	s.expectError("INVALID_INPUT", "create", "Task", "--meta", "novalue")
	s.expectError("NOT_FOUND", "create", "Task", "--parent", "42")

	view := s.create(strings.Repeat("a", 200))
	s.Len(view.Title, 200)
}

func (s *CLITestSuite) TestCreate_BodyFile() {
	path := filepath.Join(s.dir, "notes.md")
	s.Require().NoError(os.WriteFile(path, []byte("# Notes\n\nSome *markdown*.\n"), 0o600))

	view := s.create("With body", "--body-file", path)
	s.Require().NotNil(view.Body)
	s.Equal("# Notes\n\nSome *markdown*.", *view.Body)

	s.expectError("INVALID_INPUT", "create", "Unsafe", "--body-file", "../notes.md")
	s.expectError("INVALID_INPUT", "create", "Both", "--body", "x", "--body-file", path)
	s.expectError("INVALID_INPUT", "create", "Missing", "--body-file", filepath.Join(s.dir, "nope.md"))
}

func (s *CLITestSuite) TestList_HidesFinishedTasksByDefault() {
	s.create("Ready", "--status", "ready")
	s.create("Done", "--status", "done")
	s.create("Iced", "--status", "icebox")
	s.create("Closed", "--status", "closed")

	var response struct {
		Count      int
		TotalCount int64
		ViewMode   string
		Filters    dto.ListFiltersDTO
		Tasks      []dto.TaskView
	}
	s.Equal(0, s.execJSON(&response, "list"))
	s.Equal(1, response.Count)
	s.Equal(int64(4), response.TotalCount)
	s.Equal(dto.ViewModeFlat, response.ViewMode)
	s.Equal("Ready", response.Tasks[0].Title)
	s.NotNil(response.Filters.TagIDs)

	s.Equal(0, s.execJSON(&response, "list", "--all"))
	s.Equal(4, response.Count)
	s.True(response.Filters.All)

	s.Equal(0, s.execJSON(&response, "list", "--status", "done"))
	s.Require().Equal(1, response.Count)
	s.Equal("Done", response.Tasks[0].Title)
}

func (s *CLITestSuite) TestList_TagsMustAllMatch() {
	s.create("Both", "--tag", "bug", "--tag", "ui")
	s.create("Bug only", "--tag", "bug")
	s.create("Untagged")

	var response struct {
		Count int
		Tasks []dto.TaskView
	}
	s.Equal(0, s.execJSON(&response, "list", "--tag", "bug"))
	s.Equal(2, response.Count)

	s.Equal(0, s.execJSON(&response, "list", "--tag", "bug,ui"))
	s.Require().Equal(1, response.Count)
	s.Equal("Both", response.Tasks[0].Title)

	s.expectError("NOT_FOUND", "list", "--tag", "missing")
}

func (s *CLITestSuite) TestList_Tree() {
	parent := s.create("Parent", "--tag", "bug", "--meta", "priority=high")
	child := s.create("Child", "--parent", idArg(parent))
	s.create("Other root")

	var response struct {
		Count    int
		ViewMode string
		Tasks    []dto.TreeNode
	}
	s.Equal(0, s.execJSON(&response, "list", "--tree"))
	s.Equal(dto.ViewModeTree, response.ViewMode)
	s.Equal(3, response.Count)
	s.Require().Len(response.Tasks, 2)

	root := response.Tasks[0]
	s.Equal(parent.ID, root.ID)
	s.Require().Len(root.Children, 1)
	s.Equal(child.ID, root.Children[0].ID)
	s.Equal("bug", root.Tags[0].Name)
	s.Equal([]dto.MetadataDTO{{Key: "priority", Value: "high"}}, root.Metadata)

	stdout, _, code := s.exec("list", "--tree")
	s.Equal(0, code)
	s.Contains(stdout, "#1 backlog Parent [bug]\n└── #2 backlog Child\n#3 backlog Other root\n")
}

func (s *CLITestSuite) TestChildren() {
	parent := s.create("Parent")
	second := s.create("Second")
	first := s.create("First")
	s.Equal(0, s.execJSON(&struct{}{}, "parent", "set", idArg(first), idArg(parent)))
	s.Equal(0, s.execJSON(&struct{}{}, "parent", "set", idArg(second), idArg(parent)))

	var response struct {
		Children []dto.TaskView
		Count    int
	}
	s.Equal(0, s.execJSON(&response, "children", idArg(parent)))
	s.Require().Equal(2, response.Count)
	s.Equal(second.ID, response.Children[0].ID)
	s.Equal(first.ID, response.Children[1].ID)

	s.expectError("NOT_FOUND", "children", "999")
}

func (s *CLITestSuite) TestParent_RejectsCycles() {
	a := s.create("A")
	b := s.create("B")

	var moved dto.TaskView
	s.Equal(0, s.execJSON(&moved, "parent", "set", idArg(b), idArg(a)))
	s.Equal(a.ID, *moved.ParentID)

	s.expectError("CYCLE_DETECTED", "parent", "set", idArg(a), idArg(b))
	s.expectError("CYCLE_DETECTED", "parent", "set", idArg(a), idArg(a))

	s.Equal(0, s.execJSON(&moved, "parent", "clear", idArg(b)))
	s.Nil(moved.ParentID)
}

func (s *CLITestSuite) TestBlock() {
	a := s.create("A")
	b := s.create("B")

	var result map[string]interface{}
	s.Equal(0, s.execJSON(&result, "block", "add", idArg(a), idArg(b)))
	s.Equal("success", result["status"])

	s.expectError("ALREADY_EXISTS", "block", "add", idArg(a), idArg(b))
	s.expectError("SELF_EDGE", "block", "add", idArg(a), idArg(a))
	s.expectError("CYCLE_DETECTED", "block", "add", idArg(b), idArg(a))
	s.expectError("NOT_FOUND", "block", "add", idArg(a), "99999")

	s.Equal(0, s.execJSON(&result, "block", "rm", idArg(a), idArg(b)))
	s.Equal(true, result["removed"])
	s.Equal(0, s.execJSON(&result, "block", "rm", idArg(a), idArg(b)))
	s.Equal(false, result["removed"])
}

func (s *CLITestSuite) TestTagAndMeta() {
	task := s.create("Task")

	var view dto.TaskView
	s.Equal(0, s.execJSON(&view, "tag", "add", idArg(task), "bug"))
	s.Require().Len(view.Tags, 1)
	s.Equal("bug", view.Tags[0].Name)

	var tags struct {
		Tags  []dto.TagDTO
		Count int
	}
	s.Equal(0, s.execJSON(&tags, "tag", "list"))
	s.Equal(1, tags.Count)

	var result map[string]interface{}
	s.Equal(0, s.execJSON(&result, "tag", "rm", idArg(task), "bug"))
	s.Equal(true, result["removed"])
	s.expectError("NOT_FOUND", "tag", "rm", idArg(task), "missing")

	s.Equal(0, s.execJSON(&view, "meta", "set", idArg(task), "priority", "low"))
	s.Equal(0, s.execJSON(&view, "meta", "set", idArg(task), "priority", "high"))
	s.Equal([]dto.MetadataDTO{{Key: "priority", Value: "high"}}, view.Metadata)

	s.Equal(0, s.execJSON(&result, "meta", "rm", idArg(task), "priority"))
	s.Equal(true, result["removed"])
	s.expectError("NOT_FOUND", "meta", "set", "999", "k", "v")
}

func (s *CLITestSuite) TestUpdate() {
	task := s.create("Task", "--body", "old", "--author", "alice")

	var view dto.TaskView
	s.Equal(0, s.execJSON(&view, "update", idArg(task), "--status", "in_progress", "--body", ""))
	s.Equal(models.TaskStatusInProgress, view.Status)
	s.Nil(view.Body)
	s.Equal("alice", *view.Author)

	s.expectError("INVALID_INPUT", "update", idArg(task))
	s.expectError("INVALID_INPUT", "update", idArg(task), "--status", "started")
	s.expectError("NOT_FOUND", "update", "999", "--title", "x")
}

func (s *CLITestSuite) TestDelete_PromotesChildren() {
	parent := s.create("Parent", "--tag", "bug")
	child := s.create("Child", "--parent", idArg(parent))

	var result map[string]interface{}
	s.Equal(0, s.execJSON(&result, "delete", idArg(parent)))
	s.Equal(float64(parent.ID), result["deleted"])

	var detail taskDetail
	s.Equal(0, s.execJSON(&detail, "show", idArg(child)))
	s.Nil(detail.ParentID)

	s.expectError("NOT_FOUND", "delete", idArg(parent))
}

func (s *CLITestSuite) TestStats() {
	s.create("One", "--status", "ready")
	s.create("Two", "--status", "ready")
	s.create("Three")

	var stats dto.StatusCountsResponse
	s.Equal(0, s.execJSON(&stats, "stats"))
	s.Equal(map[models.TaskStatus]int64{
		models.TaskStatusIcebox:     0,
		models.TaskStatusBacklog:    1,
		models.TaskStatusReady:      2,
		models.TaskStatusInProgress: 0,
		models.TaskStatusReview:     0,
		models.TaskStatusDone:       0,
		models.TaskStatusClosed:     0,
	}, stats.Counts)
	s.Equal(int64(3), stats.TotalCount)
}

func (s *CLITestSuite) TestHumanOutput() {
	stdout, stderr, code := s.exec("create", "Fix bug", "--tag", "bug", "--author", "alice")
	s.Equal(0, code, stderr)
	s.Equal("✓ Created task\n  #1 backlog Fix bug [bug] @alice\n", stdout)

	stdout, _, code = s.exec("list")
	s.Equal(0, code)
	s.Equal("#1 backlog Fix bug [bug] @alice\n1 shown, 1 total\n", stdout)

	_, stderr, code = s.exec("show", "99")
	s.Equal(1, code)
	s.Equal("Error: task 99 not found\n", stderr)
}

func (s *CLITestSuite) TestArgumentErrors() {
	s.expectError("INVALID_INPUT", "show", "abc")
	s.expectError("INVALID_INPUT", "show")
	s.expectError("INVALID_INPUT", "list", "--bogus")
}

func (s *CLITestSuite) TestFlagErrors_ReportedAsJSON() {
	for _, args := range [][]string{
		{"--json", "list", "--bogus"},
		{"list", "--bogus", "--json=true"},
		{"create", "Task", "--status", "--json"},
		{"list", "--bogus", "value", "--json"},
	} {
		stdout, stderr, code := s.exec(args...)
		s.Equal(1, code, args)
		s.Empty(stderr, args)

		var envelope dto.ErrorEnvelope
		s.Require().NoError(json.Unmarshal([]byte(stdout), &envelope), "args=%v stdout=%q", args, stdout)
		s.False(envelope.Success)
		s.Equal("INVALID_INPUT", envelope.Error.Code, envelope.Error.Message)
	}

	stdout, stderr, code := s.exec("list", "--bogus")
	s.Equal(1, code)
	s.Empty(stdout)
	s.Equal("Error: invalid flags: unknown flag: --bogus\n", stderr)
}

func TestJSONRequested(t *testing.T) {
	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"list"}, false},
		{[]string{"list", "--json"}, true},
		{[]string{"--json", "list", "--bogus"}, true},
		{[]string{"list", "--bogus", "--json"}, true},
		{[]string{"list", "--json=true"}, true},
		{[]string{"list", "--json=false"}, false},
		{[]string{"--db", "tasks.db", "-v", "show", "1", "--json"}, true},
		{[]string{"list", "--", "--json"}, false},
		{[]string{"--help", "--json"}, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, jsonRequested(tt.args), tt.args)
	}
}

func (s *CLITestSuite) TestInit() {
	var result map[string]interface{}
	s.Equal(0, s.execJSON(&result, "init"))
	s.Equal(true, result["config_created"])
	s.Equal(s.dbPath, result["database"])

	path := filepath.Join(s.dir, ".config", "taskgraph", "taskgraph.yaml")
	s.FileExists(path)
	s.Equal(path, result["config"])

	s.Equal(0, s.execJSON(&result, "init"))
	s.Equal(false, result["config_created"])
}
