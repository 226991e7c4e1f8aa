package connection

import (
	"presenca.io/infrastructure/database/connection/cache"
	"presenca.io/infrastructure/database/connection/datastore"
)

func ConnectToDatabase() {
	datastore.Connect()
	cache.Connect()
}
