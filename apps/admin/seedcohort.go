package main

import "context"

// seedCohort installs the starter objective set for a brand-new cohort.
func (cli *commandLine) seedCohort(cohortID int) error {
	return cli.objSvc.SeedCohort(context.Background(), cohortID)
}
