package handlers

import (
	"strings"

	intconfig "crmbackend/internal/config"
	intdb "crmbackend/internal/db"
	"crmbackend/internal/http/respond"

	"github.com/gin-gonic/gin"
)

var requiredTables = []string{
	"users", "user_locations", "team_members",
	"contacts", "conversations", "opportunities", "products", "sync_status",
}

func Health(c *gin.Context) {
	respond.OK(c, gin.H{"status": "ok"})
}

// DBCheck verifies the pool is alive and the schema has every table the
// API depends on.
func DBCheck(c *gin.Context) {
	if err := intconfig.EnsureDB(); err != nil {
		respond.Error(c, 500, "database not reachable")
		return
	}

	missing := []string{}
	for _, table := range requiredTables {
		if !intdb.HasTable(intconfig.DB, table) {
			missing = append(missing, table)
		}
	}
	if len(missing) > 0 {
		respond.Error(c, 500, "missing tables: "+strings.Join(missing, ", "))
		return
	}
	respond.OK(c, gin.H{"database": "ok"})
}
