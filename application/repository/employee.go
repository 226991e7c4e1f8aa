package repository

import (
	"sync"

	"presenca.io/entities"
	"presenca.io/infrastructure/database/connection/datastore"
	"presenca.io/infrastructure/database/repository/mongo"
)

var employeeOnce = sync.Once{}

var employeeRepository mongo.MongoRepository[entities.Employee]

func EmployeeRepo() *mongo.MongoRepository[entities.Employee] {
	employeeOnce.Do(func() {
		employeeRepository = mongo.MongoRepository[entities.Employee]{Model: datastore.EmployeeModel}
	})
	return &employeeRepository
}
