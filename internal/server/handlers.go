package server

import (
	"context"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/sk-claudecode/skc/internal/hook"
	"github.com/sk-claudecode/skc/internal/pkg/logs"
	"github.com/sk-claudecode/skc/internal/pkg/prometheus"
	"github.com/sk-claudecode/skc/internal/skill"
)

type toolBeforeRequest struct {
	Input hook.ToolInput    `json:"input"`
	Args  hook.BeforeOutput `json:"output"`
}

type toolAfterRequest struct {
	Input  hook.ToolInput  `json:"input"`
	Output hook.ToolOutput `json:"output"`
}

type skillSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type skillListResponse struct {
	Mode   string         `json:"mode"`
	Skills []skillSummary `json:"skills"`
	Names  []string       `json:"names"`
}

func writeJSON(c *app.RequestContext, status int, v interface{}) {
	body, err := sonic.Marshal(v)
	if err != nil {
		c.JSON(consts.StatusInternalServerError, utils.H{"error": "encode response"})
		return
	}
	c.SetStatusCode(status)
	c.SetContentType("application/json")
	c.Response.SetBody(body)
}

func (s *Server) handleToolBefore(ctx context.Context, c *app.RequestContext) {
	var req toolBeforeRequest
	if err := sonic.Unmarshal(c.GetRequest().Body(), &req); err != nil {
		c.JSON(consts.StatusBadRequest, utils.H{"error": "invalid request body"})
		return
	}
	s.injector.BeforeToolExecute(ctx, req.Input, &req.Args)
	writeJSON(c, consts.StatusOK, req.Args)
}

// handleToolAfter always answers with an output; injection failures leave it
// as received.
func (s *Server) handleToolAfter(ctx context.Context, c *app.RequestContext) {
	var req toolAfterRequest
	if err := sonic.Unmarshal(c.GetRequest().Body(), &req); err != nil {
		c.JSON(consts.StatusBadRequest, utils.H{"error": "invalid request body"})
		return
	}
	s.injector.AfterToolExecute(ctx, req.Input, &req.Output)
	writeJSON(c, consts.StatusOK, req.Output)
}

func (s *Server) handleEvent(ctx context.Context, c *app.RequestContext) {
	var ev hook.Event
	if err := sonic.Unmarshal(c.GetRequest().Body(), &ev); err != nil {
		c.JSON(consts.StatusBadRequest, utils.H{"error": "invalid request body"})
		return
	}
	s.injector.OnEvent(ctx, ev)
	c.JSON(consts.StatusOK, utils.H{"status": "ok"})
}

func (s *Server) handleListSkills(ctx context.Context, c *app.RequestContext) {
	includeAll := string(c.Query("all")) == "true"

	resp := skillListResponse{
		Mode:  s.loader.Mode().String(),
		Names: s.loader.ListNames(includeAll),
	}
	for _, sk := range s.loader.Catalog() {
		resp.Skills = append(resp.Skills, skillSummary{Name: sk.Name, Description: sk.Description})
	}
	writeJSON(c, consts.StatusOK, resp)
}

func (s *Server) handleGetSkill(ctx context.Context, c *app.RequestContext) {
	name := strings.TrimPrefix(c.Param("name"), "/")
	if name == "" {
		c.JSON(consts.StatusBadRequest, utils.H{"error": "skill name is required"})
		return
	}
	sk, ok := s.loader.Lookup(name)
	if !ok {
		prometheus.SkillLookups.WithLabelValues("miss").Inc()
		logs.CtxDebug(ctx, "[server] skill %q not found", name)
		c.JSON(consts.StatusNotFound, utils.H{"error": skill.ErrSkillNotFound.Error()})
		return
	}
	prometheus.SkillLookups.WithLabelValues("hit").Inc()
	writeJSON(c, consts.StatusOK, sk)
}

func (s *Server) handleStats(ctx context.Context, c *app.RequestContext) {
	writeJSON(c, consts.StatusOK, utils.H{
		"skills":   s.loader.Stats(),
		"sessions": s.injector.Cache().Sessions(),
	})
}
