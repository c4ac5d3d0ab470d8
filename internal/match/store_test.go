package match

import (
	"testing"

	"github.com/GoFutureTeam/gofomentos/internal/models"
)

func TestCatalogNotifiesOnEveryMutation(t *testing.T) {
	c := NewCatalog()

	var notifications [][]models.Edital
	c.Subscribe(func(visible []models.Edital) {
		notifications = append(notifications, visible)
	})

	c.SetEditais(sampleEditais())
	c.SetQuery("saúde")
	c.SetFilter(CategoryArea, []string{OptionID(CategoryArea, 0, "Saúde")})

	if len(notifications) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(notifications))
	}
	if len(notifications[0]) != 3 {
		t.Fatalf("first notification should carry the full list, got %d", len(notifications[0]))
	}
	last := notifications[len(notifications)-1]
	if len(last) != 1 || last[0].Apelido != "FAPESP PIPE Saúde" {
		t.Fatalf("unexpected visible list after filter: %v", last)
	}
}

func TestCatalogUnsubscribeStopsNotifications(t *testing.T) {
	c := NewCatalog()

	count := 0
	unsubscribe := c.Subscribe(func([]models.Edital) { count++ })

	c.SetEditais(sampleEditais())
	unsubscribe()
	c.SetQuery("educação")

	if count != 1 {
		t.Fatalf("expected exactly 1 notification, got %d", count)
	}
}

func TestCatalogResetRestoresFullView(t *testing.T) {
	c := NewCatalog()
	c.SetEditais(sampleEditais())
	c.SetFilter(CategoryFinanciador, []string{OptionID(CategoryFinanciador, 0, "FINEP")})

	if got := c.Visible(); len(got) != 1 {
		t.Fatalf("expected 1 visible edital, got %d", len(got))
	}

	c.Reset()
	if got := c.Visible(); len(got) != 3 {
		t.Fatalf("expected full list after reset, got %d", len(got))
	}
}

func TestCatalogClearingCategoryRemovesFilter(t *testing.T) {
	c := NewCatalog()
	c.SetEditais(sampleEditais())
	c.SetFilter(CategoryArea, []string{OptionID(CategoryArea, 0, "Educação")})
	c.SetFilter(CategoryArea, nil)

	if got := c.Visible(); len(got) != 3 {
		t.Fatalf("expected full list after clearing category, got %d", len(got))
	}
}
