package usecase

import (
	"encoding/json"
	"strings"

	authentity "facecounter_backend/internal/feature/auth/domain/entity"
	"facecounter_backend/internal/feature/interview/domain/entity"
)

const (
	coachPreamble = "你是一个专业的AI面试教练，名叫Facecounter。你的目标是帮助用户练习面试。请保持专业、鼓励且具有挑战性。"

	// FallbackReply is sent when the model returns no text.
	FallbackReply = "抱歉，我没听清楚，请再说一遍。"

	feedbackInstruction = "根据以下面试对话，提供评分（0-100）、3个优势、2个待提升项和一段总结。"
)

// coachInstruction builds the system instruction from the target role and stored profile.
func coachInstruction(targetRole string, p *authentity.Profile) string {
	var b strings.Builder
	b.WriteString(coachPreamble)
	if targetRole != "" {
		b.WriteString("\n本次面试职位：")
		b.WriteString(targetRole)
	}
	if p != nil {
		industry := p.Industry
		if industry == "" {
			industry = "未指定"
		}
		b.WriteString("\n用户信息：")
		b.WriteString("\n- 姓名：" + p.Name)
		b.WriteString("\n- 当前职位：" + p.CurrentJob)
		b.WriteString("\n- 目标职位：" + p.TargetJob)
		b.WriteString("\n- 经验：" + p.Experience)
		b.WriteString("\n- 行业：" + industry)
	}
	return b.String()
}

type promptMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// feedbackPrompt embeds the transcript as JSON after the evaluation instruction.
func feedbackPrompt(t entity.Transcript) (string, error) {
	msgs := make([]promptMessage, len(t.Messages))
	for i, m := range t.Messages {
		msgs[i] = promptMessage{Role: m.Role, Content: m.Content}
	}
	raw, err := json.Marshal(msgs)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(feedbackInstruction)
	if t.TargetRole != "" {
		b.WriteString("面试职位：" + t.TargetRole + "。")
	}
	b.WriteString("对话内容：")
	b.Write(raw)
	return b.String(), nil
}
