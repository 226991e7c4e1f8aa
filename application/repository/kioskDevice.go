package repository

import (
	"sync"

	"presenca.io/entities"
	"presenca.io/infrastructure/database/connection/datastore"
	"presenca.io/infrastructure/database/repository/mongo"
)

var kioskDeviceOnce = sync.Once{}

var kioskDeviceRepository mongo.MongoRepository[entities.KioskDevice]

func KioskDeviceRepo() *mongo.MongoRepository[entities.KioskDevice] {
	kioskDeviceOnce.Do(func() {
		kioskDeviceRepository = mongo.MongoRepository[entities.KioskDevice]{Model: datastore.KioskDeviceModel}
	})
	return &kioskDeviceRepository
}
