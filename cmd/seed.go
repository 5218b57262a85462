package cmd

import (
	"context"
	"fmt"
	"os"

	"building-access-control/internal/storage"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed baseline data",
	Long: `Create the built-in door groups and system roles with their default
permissions. With --demo, also create a demo organization and building with
floors, office spaces and doors.`,
	Run: func(cmd *cobra.Command, args []string) {
		initCLILogger()
		ctx := context.Background()

		demo, _ := cmd.Flags().GetBool("demo")
		if err := seed(ctx, demo); err != nil {
			fmt.Fprintf(os.Stderr, "Seed failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Seed completed")
	},
}

// Built-in door groups and their descriptions
var seedDoorGroups = []storage.DoorGroup{
	{Name: "Public Areas", Type: storage.DoorGroupPublic, Description: "Lobbies, elevators and common areas"},
	{Name: "Private Offices", Type: storage.DoorGroupPrivate, Description: "Tenant office space"},
	{Name: "Restricted Areas", Type: storage.DoorGroupRestricted, Description: "Server rooms, electrical and maintenance"},
}

// System roles and the group types they are granted unconditional access to
var seedRoles = []struct {
	role   storage.Role
	grants []storage.DoorGroupType
}{
	{
		role:   storage.Role{Name: "Employee", Description: "Regular employee", IsSystemRole: true},
		grants: []storage.DoorGroupType{storage.DoorGroupPublic},
	},
	{
		role:   storage.Role{Name: "Manager", Description: "Team manager", IsSystemRole: true},
		grants: []storage.DoorGroupType{storage.DoorGroupPublic, storage.DoorGroupPrivate},
	},
	{
		role:   storage.Role{Name: "IT Admin", Description: "IT administrator with full access", IsSystemRole: true},
		grants: []storage.DoorGroupType{storage.DoorGroupPublic, storage.DoorGroupPrivate, storage.DoorGroupRestricted},
	},
}

func seed(ctx context.Context, demo bool) error {
	groupIDs := make(map[storage.DoorGroupType]int64)

	for _, group := range seedDoorGroups {
		existing, err := provider.FindDoorGroupByType(ctx, group.Type)
		if err != nil {
			return err
		}
		if existing != nil {
			groupIDs[group.Type] = existing.ID
			continue
		}
		id, err := provider.CreateDoorGroup(ctx, group)
		if err != nil {
			return err
		}
		groupIDs[group.Type] = id
		fmt.Printf("Created door group %s (%s)\n", group.Name, group.Type)
	}

	for _, entry := range seedRoles {
		existing, err := provider.FindRoleByName(ctx, entry.role.Name, nil)
		if err != nil {
			return err
		}

		var roleID int64
		if existing != nil {
			roleID = existing.ID
		} else {
			roleID, err = provider.CreateRole(ctx, entry.role)
			if err != nil {
				return err
			}
			fmt.Printf("Created system role %s\n", entry.role.Name)
		}

		for _, groupType := range entry.grants {
			if _, err := provider.UpsertPermission(ctx, storage.Permission{
				RoleID:      roleID,
				DoorGroupID: groupIDs[groupType],
				AccessType:  storage.AccessAlways,
			}); err != nil {
				return err
			}
		}
	}

	if demo {
		return seedDemo(ctx, groupIDs)
	}
	return nil
}

func seedDemo(ctx context.Context, groupIDs map[storage.DoorGroupType]int64) error {
	orgID, err := provider.CreateOrganization(ctx, storage.Organization{
		Name:         "Acme Corporation",
		ContactEmail: "facilities@acme.example",
	})
	if err != nil {
		return err
	}

	buildingID, err := provider.CreateBuilding(ctx, storage.Building{
		Name:     "TechHub Tower",
		Address:  "100 Innovation Drive",
		Timezone: "America/New_York",
	})
	if err != nil {
		return err
	}

	lobbyFloor, err := provider.CreateFloor(ctx, storage.Floor{BuildingID: buildingID, FloorNumber: 1})
	if err != nil {
		return err
	}
	officeFloor, err := provider.CreateFloor(ctx, storage.Floor{BuildingID: buildingID, FloorNumber: 3})
	if err != nil {
		return err
	}

	spaceID, err := provider.CreateOfficeSpace(ctx, storage.OfficeSpace{FloorID: officeFloor, Name: "Suite 301"})
	if err != nil {
		return err
	}

	if _, err := provider.CreateLease(ctx, storage.Lease{
		OrganizationID: orgID,
		OfficeSpaceID:  spaceID,
		StartDate:      "2024-01-01",
		EndDate:        "2026-12-31",
	}); err != nil {
		return err
	}

	doors := []struct {
		door  storage.Door
		group storage.DoorGroupType
	}{
		{storage.Door{Name: "Main Entrance", Location: "Lobby", FloorID: &lobbyFloor}, storage.DoorGroupPublic},
		{storage.Door{Name: "Elevator Bank", Location: "Lobby", FloorID: &lobbyFloor}, storage.DoorGroupPublic},
		{storage.Door{Name: "Suite 301", Location: "Floor 3", FloorID: &officeFloor, OfficeSpaceID: &spaceID}, storage.DoorGroupPrivate},
		{storage.Door{Name: "Server Room", Location: "Floor 3", FloorID: &officeFloor}, storage.DoorGroupRestricted},
	}

	for _, entry := range doors {
		doorID, err := provider.CreateDoor(ctx, entry.door)
		if err != nil {
			return err
		}
		if err := provider.AssignDoorToGroup(ctx, doorID, groupIDs[entry.group]); err != nil {
			return err
		}
	}

	fmt.Println("Created demo organization, building and doors")
	return nil
}

func init() {
	seedCmd.Flags().Bool("demo", false, "Also create demo organization, building and doors")
	rootCmd.AddCommand(seedCmd)
}
