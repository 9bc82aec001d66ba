/*
	Adding to the Connector

	The Connector defines how the routes reach the destinations and users
	stored in the database. Its methods are grouped by the resource they
	access: destination methods live in data/destination.go and user methods
	in data/user.go.

	To add to the Connector, add the method signature to the matching
	interface in data/data.go. Next, add the database backed implementation
	to the DB object for that resource (DBDestinationConnector for
	destinations). Finally, add an in-memory implementation to MockConnector
	in data/mock.go so that route tests can run without a database.

	Database backed methods should only call into the model packages. Query
	construction belongs in model/destination and model/user, not here.
*/
package data
