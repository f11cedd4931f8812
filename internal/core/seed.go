package core

import (
	"fmt"

	"github.com/org/docvault/pkg/models"
)

// defaultUsers builds the seed accounts: 2 special, 3 top_secret, 12
// confidential and 9 normal users with predictable credentials. Special and
// top_secret accounts start with the upgrade flag set.
func defaultUsers() []*models.User {
	groups := []struct {
		user       string
		password   string
		count      int
		permission models.Permission
		canUpgrade bool
	}{
		{"special_user", "special_password", 2, models.PermSpecial, true},
		{"ts_user", "ts_password", 3, models.PermTopSecret, true},
		{"c_user", "c_password", 12, models.PermConfidential, false},
		{"normal_user", "normal_password", 9, models.PermNormal, false},
	}

	var users []*models.User
	id := 1
	for _, g := range groups {
		for i := 1; i <= g.count; i++ {
			users = append(users, &models.User{
				ID:         fmt.Sprintf("%d", id),
				Username:   fmt.Sprintf("%s%d", g.user, i),
				Password:   fmt.Sprintf("%s%d", g.password, i),
				Permission: g.permission,
				CanUpgrade: g.canUpgrade,
			})
			id++
		}
	}
	return users
}

// defaultDocuments builds the seed documents, one per level plus a second
// confidential one, all attributed to "system".
func defaultDocuments() []*models.Document {
	return []*models.Document{
		{
			ID:         "1",
			Filename:   "general-notice.txt",
			Permission: models.PermNormal,
			Content: "A general notice readable by every user.\n\nContents:\n" +
				"1. System usage guide\n2. Permission management rules\n3. Safe operation guidelines",
			CreatedAt: "2024-01-01",
			CreatedBy: "system",
		},
		{
			ID:         "2",
			Filename:   "department-meeting-minutes.docx",
			Permission: models.PermConfidential,
			Content: "Confidential meeting minutes covering key business decisions.\n\n" +
				"Topic: 2024 strategic planning\nAttendees: full management team\nResolutions:\n" +
				"1. New product development plan\n2. Market expansion strategy\n3. Budget allocation",
			CreatedAt: "2024-01-01",
			CreatedBy: "system",
		},
		{
			ID:         "3",
			Filename:   "corporate-strategy.pdf",
			Permission: models.PermTopSecret,
			Content: "Top-secret strategy document: the five-year development plan.\n\nCore sections:\n" +
				"1. R&D roadmap\n2. Competitive analysis\n3. Investment and acquisition plans\n" +
				"4. Risk controls\n5. Contingency plans",
			CreatedAt: "2024-01-01",
			CreatedBy: "system",
		},
		{
			ID:         "4",
			Filename:   "national-security-brief.sec",
			Permission: models.PermSpecial,
			Content: "Special-clearance document containing the highest classification of material.\n\n" +
				"Access restrictions:\n- Special-permission users only\n- Full audit trail required\n\n" +
				"Sections:\n1. National security strategy\n2. Critical infrastructure protection\n3. Emergency response plans",
			CreatedAt: "2024-01-01",
			CreatedBy: "system",
		},
		{
			ID:         "5",
			Filename:   "rd-whitepaper.pdf",
			Permission: models.PermConfidential,
			Content: "Confidential R&D whitepaper.\n\nResearch directions:\n" +
				"1. AI algorithm optimization\n2. Quantum computing\n3. Network security\n4. Data encryption",
			CreatedAt: "2024-01-01",
			CreatedBy: "system",
		},
	}
}
