package catalog

var defaultExercises = []Exercise{
	{ID: "bench-press", Name: "Bench Press", MuscleGroup: "chest", Equipment: "barbell"},
	{ID: "incline-bench-press", Name: "Incline Bench Press", MuscleGroup: "chest", Equipment: "barbell"},
	{ID: "dumbbell-fly", Name: "Dumbbell Fly", MuscleGroup: "chest", Equipment: "dumbbell"},
	{ID: "squat", Name: "Back Squat", MuscleGroup: "legs", Equipment: "barbell"},
	{ID: "front-squat", Name: "Front Squat", MuscleGroup: "legs", Equipment: "barbell"},
	{ID: "leg-press", Name: "Leg Press", MuscleGroup: "legs", Equipment: "machine"},
	{ID: "romanian-deadlift", Name: "Romanian Deadlift", MuscleGroup: "legs", Equipment: "barbell"},
	{ID: "deadlift", Name: "Deadlift", MuscleGroup: "back", Equipment: "barbell"},
	{ID: "barbell-row", Name: "Barbell Row", MuscleGroup: "back", Equipment: "barbell"},
	{ID: "lat-pulldown", Name: "Lat Pulldown", MuscleGroup: "back", Equipment: "machine"},
	{ID: "pull-up", Name: "Pull Up", MuscleGroup: "back", Equipment: "bodyweight"},
	{ID: "overhead-press", Name: "Overhead Press", MuscleGroup: "shoulders", Equipment: "barbell"},
	{ID: "lateral-raise", Name: "Lateral Raise", MuscleGroup: "shoulders", Equipment: "dumbbell"},
	{ID: "biceps-curl", Name: "Biceps Curl", MuscleGroup: "arms", Equipment: "dumbbell"},
	{ID: "triceps-pushdown", Name: "Triceps Pushdown", MuscleGroup: "arms", Equipment: "cable"},
	{ID: "plank", Name: "Plank", MuscleGroup: "core", Equipment: "bodyweight"},
	{ID: "cable-crunch", Name: "Cable Crunch", MuscleGroup: "core", Equipment: "cable"},
}

var defaultTemplates = []Template{
	{
		ID:   "push-day",
		Name: "Push Day",
		Exercises: []TemplateExercise{
			{ExerciseID: "bench-press", TargetSets: 4, TargetReps: 8, TargetWeight: 80},
			{ExerciseID: "incline-bench-press", TargetSets: 3, TargetReps: 10, TargetWeight: 60},
			{ExerciseID: "overhead-press", TargetSets: 3, TargetReps: 8, TargetWeight: 50},
			{ExerciseID: "triceps-pushdown", TargetSets: 3, TargetReps: 12, TargetWeight: 25},
		},
	},
	{
		ID:   "pull-day",
		Name: "Pull Day",
		Exercises: []TemplateExercise{
			{ExerciseID: "deadlift", TargetSets: 3, TargetReps: 5, TargetWeight: 120},
			{ExerciseID: "barbell-row", TargetSets: 4, TargetReps: 8, TargetWeight: 70},
			{ExerciseID: "lat-pulldown", TargetSets: 3, TargetReps: 10, TargetWeight: 55},
			{ExerciseID: "biceps-curl", TargetSets: 3, TargetReps: 12, TargetWeight: 14},
		},
	},
	{
		ID:   "leg-day",
		Name: "Leg Day",
		Exercises: []TemplateExercise{
			{ExerciseID: "squat", TargetSets: 4, TargetReps: 6, TargetWeight: 100},
			{ExerciseID: "romanian-deadlift", TargetSets: 3, TargetReps: 8, TargetWeight: 80},
			{ExerciseID: "leg-press", TargetSets: 3, TargetReps: 12, TargetWeight: 150},
			{ExerciseID: "plank", TargetSets: 3, TargetReps: 1},
		},
	},
}
