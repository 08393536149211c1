package objective

// seedObjectives is the starter checklist installed for every new cohort.
var seedObjectives = []struct {
	Topic             string
	LearningObjective string
}{
	{"HTML/CSS", "Understand what parent and child is"},
	{"HTML/CSS", "Can create and link a stylesheet"},
	{"Javascript", "Be able to link a Javascript file in your project"},
	{"Javascript", "Be able to do a console.log()"},
	{"React", "Understand the difference between class and functional components"},
	{"React", "Be able to create a React application with create-react-app"},
}
