// catalogctl is the operational CLI for the catalog database: applying
// schema migrations and seeding the development fixture.
package main

func main() {
	Execute()
}
